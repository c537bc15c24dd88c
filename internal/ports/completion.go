package ports

import (
	"context"

	"github.com/shreyas-rp/ChatApp/internal/domain"
)

// CompletionRequest carries everything the completion collaborator needs for
// one generation: the mode's role instructions, the prior history (excluding
// the turn being answered), and the new user input.
type CompletionRequest struct {
	Mode         domain.Mode
	Instructions string
	History      []domain.Turn
	Input        string
}

// CompletionService generates the assistant's reply. Failures are returned
// as *domain.CompletionError so callers never have to inspect message text.
type CompletionService interface {
	Generate(ctx context.Context, req CompletionRequest) (string, error)
}
