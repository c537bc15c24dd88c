package cmd

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shreyas-rp/ChatApp/internal/adapters/completion/azure"
	"github.com/shreyas-rp/ChatApp/internal/adapters/httpapi"
	"github.com/shreyas-rp/ChatApp/internal/application"
	"github.com/shreyas-rp/ChatApp/internal/config"
	"github.com/shreyas-rp/ChatApp/internal/domain"
	"github.com/shreyas-rp/ChatApp/internal/ports"
)

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *application.Registry
	auth     *application.AuthService
	chat     *application.ChatService
	handler  *httpapi.Handler
}

// wireApp builds the whole object graph once, after configuration is loaded
// and validated. Anything misconfigured fails here, before the listener
// accepts its first request.
func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	prompts, err := config.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	completionClient, err := azure.NewClient(azure.Config{
		APIKey:     cfg.Azure.APIKey,
		Endpoint:   cfg.Azure.Endpoint,
		APIVersion: cfg.Azure.APIVersion,
		Deployments: map[domain.Mode]string{
			domain.ModeQA:     cfg.Azure.QADeployment,
			domain.ModeNormal: cfg.Azure.NormalDeployment,
		},
		Timeout: cfg.Azure.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("wire completion client: %w", err)
	}

	registry := application.NewRegistry(cfg.MaxConcurrentSessions, cfg.SessionTTL, ports.SystemClock{})

	auth, err := application.NewAuthService(cfg.SharedPassword, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("wire auth service: %w", err)
	}

	chat := application.NewChatService(completionClient, prompts, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		auth:     auth,
		chat:     chat,
		handler:  httpapi.NewHandler(auth, chat, registry, cfg.SessionTTL, logger),
	}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	if debug {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return logConfig.Build()
}
