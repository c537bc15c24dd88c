package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shreyas-rp/ChatApp/internal/adapters/httpapi"
	rendersessions "github.com/shreyas-rp/ChatApp/internal/adapters/render/sessions"
)

const maxAdminResponseBytes = 1 << 20

func newSessionsCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show active sessions on a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := adminPassword()
			if err != nil {
				return err
			}

			var payload httpapi.SessionsResponse
			err = runFetchSpinner(cmd.Context(), cmd.OutOrStdout(), "Fetching sessions...", func(ctx context.Context) error {
				return fetchSessions(ctx, serverURL, password, &payload)
			})
			if err != nil {
				return err
			}

			entries := make([]rendersessions.Entry, 0, len(payload.Sessions))
			for _, session := range payload.Sessions {
				entries = append(entries, rendersessions.Entry{
					ID:           session.ID,
					CreatedAt:    session.CreatedAt,
					LastActiveAt: session.LastActiveAt,
				})
			}

			output, err := rendersessions.Render(entries, rendersessions.RenderOptions{
				Now: time.Now(),
				TTL: time.Duration(payload.TTLMinutes) * time.Minute,
				Max: payload.Max,
			})
			if err != nil {
				return fmt.Errorf("render sessions: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "Base URL of the running chatapp server")
	cmd.AddCommand(newSessionsResetCmd(&serverURL))

	return cmd
}

func newSessionsResetCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the whole session registry (lockout escape hatch)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := adminPassword()
			if err != nil {
				return err
			}

			if err := resetSessions(cmd.Context(), *serverURL, password); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Session registry reset.")
			return err
		},
	}
}

func adminPassword() (string, error) {
	password := os.Getenv("CHATAPP_SHARED_PASSWORD")
	if password == "" {
		return "", errors.New("CHATAPP_SHARED_PASSWORD must be set to talk to the admin endpoints")
	}
	return password, nil
}

func fetchSessions(ctx context.Context, serverURL, password string, payload *httpapi.SessionsResponse) error {
	body, err := adminRequest(ctx, http.MethodGet, serverURL+"/api/sessions", password)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, payload); err != nil {
		return fmt.Errorf("decode sessions response: %w", err)
	}
	return nil
}

func resetSessions(ctx context.Context, serverURL, password string) error {
	_, err := adminRequest(ctx, http.MethodPost, serverURL+"/api/sessions/reset", password)
	return err
}

func adminRequest(ctx context.Context, method, endpoint, password string) ([]byte, error) {
	requestCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create admin request: %w", err)
	}
	req.Header.Set("X-Admin-Password", password)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call admin endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAdminResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read admin response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("admin endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
