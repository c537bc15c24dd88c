// Package sessions renders the administrative view of the session registry
// for the terminal.
package sessions

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Entry is one registered session as reported by the server.
type Entry struct {
	ID           string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

type RenderOptions struct {
	Now time.Time
	// TTL is the server's session TTL; remaining lifetime is rendered
	// relative to it.
	TTL time.Duration
	// Max is the server's concurrent-session cap.
	Max int
}

func renderView(entries []Entry, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("ChatApp Sessions"),
		s.header.Render(fmt.Sprintf("active: %d / %d", len(entries), opts.Max)),
	}

	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("No active sessions."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range entries {
		lines = append(lines, s.section.Render(renderEntry(entry, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderEntry(entry Entry, opts RenderOptions, s styles) string {
	parts := []string{
		s.session.Render(shortID(entry.ID)),
		s.detail.Render(fmt.Sprintf("created %s", formatAge(opts.Now.Sub(entry.CreatedAt)))),
	}

	remaining := remainingLifetime(entry, opts)
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.detail.Render("expires "),
		renderLifetimeBar(remaining, opts.TTL, 24, s),
		" ",
		s.detail.Render(fmt.Sprintf("in %s", formatAge(remaining))),
	)
	if remaining <= 0 {
		line = s.warning.Render("expired")
	}
	parts = append(parts, line)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func remainingLifetime(entry Entry, opts RenderOptions) time.Duration {
	if opts.TTL <= 0 {
		return 0
	}
	return entry.LastActiveAt.Add(opts.TTL).Sub(opts.Now)
}

func renderLifetimeBar(remaining, ttl time.Duration, width int, s styles) string {
	if width <= 0 || ttl <= 0 {
		return ""
	}

	fraction := float64(remaining) / float64(ttl)
	fraction = math.Min(1, math.Max(0, fraction))
	filled := int(math.Round(fraction * float64(width)))

	return s.barBracket.Render("[") +
		s.barFill.Render(strings.Repeat("█", filled)) +
		s.barEmpty.Render(strings.Repeat("░", width-filled)) +
		s.barBracket.Render("]")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func formatAge(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
