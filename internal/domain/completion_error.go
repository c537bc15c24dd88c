package domain

import "fmt"

// CompletionErrorKind classifies a failed completion call. Classification is
// performed by the completion adapter, never by sniffing message strings at
// call sites.
type CompletionErrorKind string

const (
	CompletionConnection       CompletionErrorKind = "connection"
	CompletionAuthentication   CompletionErrorKind = "authentication"
	CompletionConfiguration    CompletionErrorKind = "configuration"
	CompletionRateLimited      CompletionErrorKind = "rate_limited"
	CompletionModelUnavailable CompletionErrorKind = "model_unavailable"
	CompletionUnknown          CompletionErrorKind = "unknown"
)

// CompletionError wraps an upstream completion failure with its
// classification. The wrapped cause is for the operator log only; clients
// only ever see UserMessage.
type CompletionError struct {
	Kind  CompletionErrorKind
	Cause error
}

func NewCompletionError(kind CompletionErrorKind, cause error) *CompletionError {
	return &CompletionError{Kind: kind, Cause: cause}
}

func (e *CompletionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("completion failed: %s", e.Kind)
	}
	return fmt.Sprintf("completion failed (%s): %v", e.Kind, e.Cause)
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the fixed, pre-written message shown in place of an
// assistant reply. It never includes raw upstream detail, endpoints, or
// credential fragments.
func (e *CompletionError) UserMessage() string {
	switch e.Kind {
	case CompletionConnection:
		return "❌ **Connection Error**\n\nUnable to connect to the AI service. Please check:\n• Your internet connection\n• Service availability\n• Network settings"
	case CompletionAuthentication:
		return "❌ **Authentication Error**\n\nInvalid API credentials. Please verify your configuration in the `.env` file."
	case CompletionConfiguration:
		return "❌ **Configuration Error**\n\nInvalid service endpoint configuration. Please check your `.env` file settings."
	case CompletionRateLimited:
		return "❌ **Rate Limit Exceeded**\n\nToo many requests. Please wait a moment and try again."
	case CompletionModelUnavailable:
		return "❌ **Model Error**\n\nThe requested AI model is not available. Please check your model configuration."
	default:
		return "❌ **Error**\n\nSomething went wrong while processing your request. Please try again or check your configuration."
	}
}
