package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *viper.Viper {
	v := viper.New()
	v.Set("shared_password", "hunter2")
	v.Set("azure.api_key", "real-key")
	v.Set("azure.endpoint", "https://example.openai.azure.com")
	return v
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(validSettings())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2, cfg.MaxConcurrentSessions)
	assert.Equal(t, 1, cfg.MaxRegisteredUsers)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "2024-02-15-preview", cfg.Azure.APIVersion)
	assert.Equal(t, "gpt-4o", cfg.Azure.QADeployment)
	assert.Equal(t, "gpt-4o", cfg.Azure.NormalDeployment)
	assert.Equal(t, 30*time.Second, cfg.Azure.Timeout)
}

func TestLoadHonorsOverrides(t *testing.T) {
	v := validSettings()
	v.Set("listen_addr", "127.0.0.1:9000")
	v.Set("session_ttl_minutes", 5)
	v.Set("max_sessions", 4)
	v.Set("debug", true)
	v.Set("completion_timeout_seconds", 10)
	v.Set("azure.qa_deployment", "gpt-4o-mini")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 4, cfg.MaxConcurrentSessions)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 10*time.Second, cfg.Azure.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.Azure.QADeployment)
	assert.Equal(t, "gpt-4o", cfg.Azure.NormalDeployment)
}

func TestLoadCapsRegisteredUsers(t *testing.T) {
	v := validSettings()
	v.Set("max_users", 10)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxRegisteredUsers)
}

func TestLoadRequiresSharedPassword(t *testing.T) {
	v := validSettings()
	v.Set("shared_password", "")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHATAPP_SHARED_PASSWORD")
}

func TestLoadTreatsPlaceholderCredentialsAsUnset(t *testing.T) {
	v := validSettings()
	v.Set("azure.api_key", "your_azure_openai_api_key_here")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_API_KEY")
}

func TestLoadRejectsMalformedEndpoint(t *testing.T) {
	v := validSettings()
	v.Set("azure.endpoint", "example.openai.azure.com")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_ENDPOINT")
}

func TestLoadCollectsAllValidationFailures(t *testing.T) {
	v := viper.New()
	v.Set("session_ttl_minutes", 0)
	v.Set("max_sessions", 0)

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHATAPP_SHARED_PASSWORD")
	assert.Contains(t, err.Error(), "session TTL")
	assert.Contains(t, err.Error(), "max concurrent sessions")
}
