package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

const (
	keySharedPassword    = "shared_password"
	keyListenAddr        = "listen_addr"
	keySessionTTLMinutes = "session_ttl_minutes"
	keyMaxSessions       = "max_sessions"
	keyMaxUsers          = "max_users"
	keyDebug             = "debug"
	keyPromptsFile       = "prompts_file"
	keyCompletionTimeout = "completion_timeout_seconds"
	keyAzureAPIKey       = "azure.api_key"
	keyAzureEndpoint     = "azure.endpoint"
	keyAzureAPIVersion   = "azure.api_version"
	keyQADeployment      = "azure.qa_deployment"
	keyNormalDeployment  = "azure.chat_deployment"

	// maxRegisteredUsersCap bounds the configured user count. Only the single
	// shared password is actually enforced.
	maxRegisteredUsersCap = 3

	defaultAPIVersion = "2024-02-15-preview"
	defaultDeployment = "gpt-4o"
)

// Placeholder values from env.example count as unset.
var placeholderValues = map[string]struct{}{
	"your_azure_openai_api_key_here":  {},
	"your_azure_openai_endpoint_here": {},
}

type Azure struct {
	APIKey           string
	Endpoint         string
	APIVersion       string
	QADeployment     string
	NormalDeployment string
	Timeout          time.Duration
}

type Config struct {
	SharedPassword        string
	ListenAddr            string
	SessionTTL            time.Duration
	MaxConcurrentSessions int
	MaxRegisteredUsers    int
	Debug                 bool
	PromptsFile           string
	Azure                 Azure
}

// Load reads configuration from the environment once at startup and
// validates it. Secrets never leave this struct except into the adapters
// that need them.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetDefault(keyListenAddr, ":8080")
	cfg.SetDefault(keySessionTTLMinutes, 30)
	cfg.SetDefault(keyMaxSessions, 2)
	cfg.SetDefault(keyMaxUsers, 1)
	cfg.SetDefault(keyCompletionTimeout, 30)
	cfg.SetDefault(keyAzureAPIVersion, defaultAPIVersion)
	cfg.SetDefault(keyQADeployment, defaultDeployment)
	cfg.SetDefault(keyNormalDeployment, defaultDeployment)

	bindings := map[string]string{
		keySharedPassword:    "CHATAPP_SHARED_PASSWORD",
		keyListenAddr:        "CHATAPP_LISTEN_ADDR",
		keySessionTTLMinutes: "CHATAPP_SESSION_TTL_MINUTES",
		keyMaxSessions:       "CHATAPP_MAX_SESSIONS",
		keyMaxUsers:          "CHATAPP_MAX_USERS",
		keyDebug:             "CHATAPP_DEBUG",
		keyPromptsFile:       "CHATAPP_PROMPTS_FILE",
		keyCompletionTimeout: "CHATAPP_COMPLETION_TIMEOUT_SECONDS",
		keyAzureAPIKey:       "AZURE_OPENAI_API_KEY",
		keyAzureEndpoint:     "AZURE_OPENAI_ENDPOINT",
		keyAzureAPIVersion:   "AZURE_OPENAI_API_VERSION",
		keyQADeployment:      "CHATAPP_QA_DEPLOYMENT",
		keyNormalDeployment:  "CHATAPP_CHAT_DEPLOYMENT",
	}
	for key, env := range bindings {
		if err := cfg.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	loaded := Config{
		SharedPassword:        cfg.GetString(keySharedPassword),
		ListenAddr:            cfg.GetString(keyListenAddr),
		SessionTTL:            time.Duration(cfg.GetInt(keySessionTTLMinutes)) * time.Minute,
		MaxConcurrentSessions: cfg.GetInt(keyMaxSessions),
		MaxRegisteredUsers:    cfg.GetInt(keyMaxUsers),
		Debug:                 cfg.GetBool(keyDebug),
		PromptsFile:           cfg.GetString(keyPromptsFile),
		Azure: Azure{
			APIKey:           unlessPlaceholder(cfg.GetString(keyAzureAPIKey)),
			Endpoint:         unlessPlaceholder(cfg.GetString(keyAzureEndpoint)),
			APIVersion:       cfg.GetString(keyAzureAPIVersion),
			QADeployment:     cfg.GetString(keyQADeployment),
			NormalDeployment: cfg.GetString(keyNormalDeployment),
			Timeout:          time.Duration(cfg.GetInt(keyCompletionTimeout)) * time.Second,
		},
	}

	if loaded.MaxRegisteredUsers > maxRegisteredUsersCap {
		loaded.MaxRegisteredUsers = maxRegisteredUsersCap
	}

	if err := loaded.validate(); err != nil {
		return Config{}, err
	}

	return loaded, nil
}

func (c Config) validate() error {
	var errs []error

	if c.SharedPassword == "" {
		errs = append(errs, errors.New("CHATAPP_SHARED_PASSWORD is required"))
	}
	if c.Azure.APIKey == "" {
		errs = append(errs, errors.New("AZURE_OPENAI_API_KEY is required"))
	}
	if c.Azure.Endpoint == "" {
		errs = append(errs, errors.New("AZURE_OPENAI_ENDPOINT is required"))
	} else if err := validateEndpoint(c.Azure.Endpoint); err != nil {
		errs = append(errs, err)
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session TTL must be positive"))
	}
	if c.MaxConcurrentSessions < 1 {
		errs = append(errs, errors.New("max concurrent sessions must be at least 1"))
	}
	if c.MaxRegisteredUsers < 1 {
		errs = append(errs, errors.New("max registered users must be at least 1"))
	}
	if c.Azure.Timeout <= 0 {
		errs = append(errs, errors.New("completion timeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse AZURE_OPENAI_ENDPOINT: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("AZURE_OPENAI_ENDPOINT must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("AZURE_OPENAI_ENDPOINT host is required")
	}
	return nil
}

func unlessPlaceholder(value string) string {
	if _, ok := placeholderValues[value]; ok {
		return ""
	}
	return value
}
