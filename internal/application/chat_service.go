package application

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/shreyas-rp/ChatApp/internal/domain"
	"github.com/shreyas-rp/ChatApp/internal/ports"
)

// ChatService routes messages to the per-mode conversation memory and the
// completion collaborator. Each mode's history is isolated; appending or
// clearing one mode never touches the other.
//
// Completion calls are serialized per mode: a second sender on the same mode
// queues behind the in-flight call, so turns land in strict
// user/assistant/user/assistant order even under concurrent tabs. History
// reads and clears take only the memory lock and never wait on a slow
// completion.
type ChatService struct {
	completion ports.CompletionService
	prompts    domain.Prompts
	logger     *zap.Logger

	mu       sync.Mutex
	memories map[domain.Mode]*conversationMemory

	// sending holds one mutex per mode, fixed at construction.
	sending map[domain.Mode]*sync.Mutex
}

func NewChatService(completion ports.CompletionService, prompts domain.Prompts, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}

	memories := make(map[domain.Mode]*conversationMemory, len(domain.Modes()))
	sending := make(map[domain.Mode]*sync.Mutex, len(domain.Modes()))
	for _, mode := range domain.Modes() {
		memories[mode] = newConversationMemory()
		sending[mode] = &sync.Mutex{}
	}

	return &ChatService{
		completion: completion,
		prompts:    prompts,
		logger:     logger,
		memories:   memories,
		sending:    sending,
	}
}

// History returns the mode's full turn sequence in insertion order.
func (s *ChatService) History(mode domain.Mode) ([]domain.Turn, error) {
	if !mode.Valid() {
		return nil, domain.ErrUnknownMode
	}
	return s.memory(mode).history(), nil
}

// Clear truncates the mode's history by swapping in a fresh memory store.
// Idempotent; the other mode is unaffected.
func (s *ChatService) Clear(mode domain.Mode) error {
	if !mode.Valid() {
		return domain.ErrUnknownMode
	}

	s.mu.Lock()
	s.memories[mode] = newConversationMemory()
	s.mu.Unlock()

	s.logger.Info("conversation cleared", zap.String("mode", string(mode)))
	return nil
}

// SendMessage appends the user turn, asks the completion service for a reply
// given the prior history, and appends the reply as the assistant turn.
//
// On a classified completion failure the rendered user-safe message is
// appended as the assistant turn, so the failure becomes part of the
// remembered conversation exactly like a normal reply. The classified error
// is returned alongside for response shaping; raw upstream detail goes to
// the operator log only.
func (s *ChatService) SendMessage(ctx context.Context, mode domain.Mode, text string) (domain.Turn, error) {
	if !mode.Valid() {
		return domain.Turn{}, domain.ErrUnknownMode
	}
	if strings.TrimSpace(text) == "" {
		return domain.Turn{}, domain.ErrEmptyMessage
	}

	lock := s.sending[mode]
	lock.Lock()
	defer lock.Unlock()

	memory := s.memory(mode)
	prior := memory.history()
	memory.append(domain.Turn{Role: domain.RoleUser, Content: text})

	reply, err := s.completion.Generate(ctx, ports.CompletionRequest{
		Mode:         mode,
		Instructions: s.prompts.For(mode),
		History:      prior,
		Input:        text,
	})
	if err != nil {
		classified := classifyCompletionFailure(err)
		s.logger.Error("completion failed",
			zap.String("mode", string(mode)),
			zap.String("kind", string(classified.Kind)),
			zap.Error(err))

		// Appended to the memory captured above: a clear issued while the
		// call was in flight discards this turn along with the rest of the
		// pre-clear conversation.
		memory.append(domain.Turn{Role: domain.RoleAssistant, Content: classified.UserMessage()})
		return domain.Turn{}, classified
	}

	turn := domain.Turn{Role: domain.RoleAssistant, Content: reply}
	memory.append(turn)

	s.logger.Debug("completion succeeded",
		zap.String("mode", string(mode)),
		zap.Int("history_turns", len(prior)),
		zap.Int("reply_len", len(reply)))

	return turn, nil
}

// TurnCount reports how many turns the mode currently remembers.
func (s *ChatService) TurnCount(mode domain.Mode) int {
	if !mode.Valid() {
		return 0
	}
	return s.memory(mode).size()
}

// memory re-reads the map on every access because Clear swaps entries.
func (s *ChatService) memory(mode domain.Mode) *conversationMemory {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.memories[mode]
}

func classifyCompletionFailure(err error) *domain.CompletionError {
	var classified *domain.CompletionError
	if errors.As(err, &classified) {
		return classified
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.NewCompletionError(domain.CompletionConnection, err)
	}
	return domain.NewCompletionError(domain.CompletionUnknown, err)
}
