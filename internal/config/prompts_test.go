package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyas-rp/ChatApp/internal/domain"
)

func TestLoadPromptsWithoutFileReturnsDefaults(t *testing.T) {
	prompts, err := LoadPrompts("")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultPrompts(), prompts)
}

func TestLoadPromptsOverridesOnlyPresentEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.toml")
	require.NoError(t, os.WriteFile(path, []byte(`qa = "custom qa instructions"`), 0o600))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)

	assert.Equal(t, "custom qa instructions", prompts.QA)
	assert.Equal(t, domain.DefaultPrompts().Normal, prompts.Normal)
}

func TestLoadPromptsOverridesBothModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.toml")
	content := "qa = \"custom qa\"\nnormal = \"custom normal\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)

	assert.Equal(t, "custom qa", prompts.QA)
	assert.Equal(t, "custom normal", prompts.Normal)
}

func TestLoadPromptsFailsOnMissingFile(t *testing.T) {
	_, err := LoadPrompts(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadPromptsFailsOnMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.toml")
	require.NoError(t, os.WriteFile(path, []byte(`qa = [unclosed`), 0o600))

	_, err := LoadPrompts(path)
	require.Error(t, err)
}
