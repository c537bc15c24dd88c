package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBearerTokenRoundTrip(t *testing.T) {
	token := SessionToken{ID: "abc-123", Signature: "deadbeef"}

	parsed, err := ParseBearerToken(token.Bearer())
	require.NoError(t, err)

	assert.Equal(t, token, parsed)
}

func TestParseBearerTokenKeepsDotsInSignature(t *testing.T) {
	parsed, err := ParseBearerToken("id.sig.with.dots")
	require.NoError(t, err)

	assert.Equal(t, "id", parsed.ID)
	assert.Equal(t, "sig.with.dots", parsed.Signature)
}

func TestParseBearerTokenRejectsMalformedValues(t *testing.T) {
	for _, raw := range []string{"", "nodot", ".sig-only", "id-only.", "."} {
		_, err := ParseBearerToken(raw)
		require.Error(t, err, "raw %q", raw)
		assert.ErrorIs(t, err, ErrBadSignature, "raw %q", raw)
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeQA.Valid())
	assert.True(t, ModeNormal.Valid())
	assert.False(t, Mode("").Valid())
	assert.False(t, Mode("QA").Valid())
	assert.False(t, Mode("chat").Valid())
}

func TestModesCoversBothContexts(t *testing.T) {
	modes := Modes()
	require.Len(t, modes, 2)
	assert.Contains(t, modes, ModeQA)
	assert.Contains(t, modes, ModeNormal)
}

func TestDefaultPromptsDifferPerMode(t *testing.T) {
	prompts := DefaultPrompts()

	require.NotEmpty(t, prompts.QA)
	require.NotEmpty(t, prompts.Normal)
	assert.NotEqual(t, prompts.QA, prompts.Normal)
	assert.Contains(t, prompts.QA, "defect report")
	assert.Contains(t, prompts.Normal, "friendly conversation")
}

func TestPromptsForFallsBackToDefaults(t *testing.T) {
	prompts := Prompts{QA: "custom qa"}

	assert.Equal(t, "custom qa", prompts.For(ModeQA))
	assert.Equal(t, DefaultPrompts().Normal, prompts.For(ModeNormal))
}

func TestCompletionErrorUserMessagePerKind(t *testing.T) {
	cases := map[CompletionErrorKind]string{
		CompletionConnection:       "Connection Error",
		CompletionAuthentication:   "Authentication Error",
		CompletionConfiguration:    "Configuration Error",
		CompletionRateLimited:      "Rate Limit Exceeded",
		CompletionModelUnavailable: "Model Error",
		CompletionUnknown:          "Something went wrong",
	}

	for kind, fragment := range cases {
		message := NewCompletionError(kind, nil).UserMessage()
		assert.True(t, strings.HasPrefix(message, "❌"), "kind %s", kind)
		assert.Contains(t, message, fragment, "kind %s", kind)
	}
}

func TestCompletionErrorNeverLeaksCauseIntoUserMessage(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:443: i/o timeout")
	err := NewCompletionError(CompletionConnection, cause)

	assert.NotContains(t, err.UserMessage(), "10.0.0.1")
	assert.Contains(t, err.Error(), "i/o timeout")
	assert.ErrorIs(t, err, cause)
}
