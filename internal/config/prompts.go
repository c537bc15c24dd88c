package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/shreyas-rp/ChatApp/internal/domain"
)

type promptsSchema struct {
	QA     string `toml:"qa"`
	Normal string `toml:"normal"`
}

// LoadPrompts returns the role-instruction templates, with any non-empty
// entry from the TOML override file at path replacing the built-in text.
// An empty path means built-in templates only.
func LoadPrompts(path string) (domain.Prompts, error) {
	prompts := domain.DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Prompts{}, fmt.Errorf("read prompts file: %w", err)
	}

	var schema promptsSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return domain.Prompts{}, fmt.Errorf("decode prompts file: %w", err)
	}

	if schema.QA != "" {
		prompts.QA = schema.QA
	}
	if schema.Normal != "" {
		prompts.Normal = schema.Normal
	}

	return prompts, nil
}
