package application

import (
	"sync"

	"github.com/shreyas-rp/ChatApp/internal/domain"
)

// conversationMemory is one mode's ordered, append-only log of turns. It is
// unbounded; the full log is replayed to the completion service every turn.
// Clearing a mode replaces its memory with a fresh instance rather than
// truncating in place, so no completion-side context object survives a clear.
type conversationMemory struct {
	mu    sync.Mutex
	turns []domain.Turn
}

func newConversationMemory() *conversationMemory {
	return &conversationMemory{}
}

func (m *conversationMemory) append(turn domain.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, turn)
}

// history returns a copy; callers may hold it across completion calls
// without seeing concurrent appends.
func (m *conversationMemory) history() []domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := make([]domain.Turn, len(m.turns))
	copy(turns, m.turns)
	return turns
}

func (m *conversationMemory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.turns)
}
