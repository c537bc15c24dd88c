// Package azure adapts the Azure OpenAI chat-completions API to the
// completion port. All classification of upstream failures happens here;
// callers receive a typed *domain.CompletionError and never inspect
// response text themselves.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shreyas-rp/ChatApp/internal/domain"
	"github.com/shreyas-rp/ChatApp/internal/ports"
)

const maxResponseBytes = 1 << 20

const defaultTemperature = 0.7

type Config struct {
	APIKey     string
	Endpoint   string
	APIVersion string
	// Deployments maps each chat mode to its model deployment name.
	Deployments map[domain.Mode]string
	// Timeout bounds each completion call when the caller's context carries
	// no deadline. Defaults to 30 seconds.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	apiKey      string
	endpoint    *url.URL
	apiVersion  string
	deployments map[domain.Mode]string
	timeout     time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

var _ ports.CompletionService = (*Client)(nil)

// NewClient validates the configuration eagerly: a malformed endpoint or a
// missing credential fails process startup, not the first chat message.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.APIVersion == "" {
		return nil, errors.New("api version is required")
	}
	if len(cfg.Deployments) == 0 {
		return nil, errors.New("at least one mode deployment is required")
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, errors.New("endpoint must use http or https")
	}
	if endpoint.Host == "" {
		return nil, errors.New("endpoint host is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	deployments := make(map[domain.Mode]string, len(cfg.Deployments))
	for mode, deployment := range cfg.Deployments {
		deployments[mode] = deployment
	}

	return &Client{
		apiKey:      cfg.APIKey,
		endpoint:    endpoint,
		apiVersion:  cfg.APIVersion,
		deployments: deployments,
		timeout:     timeout,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the mode's role instructions, the replayed history, and the
// new input as one chat-completions call and returns the assistant text.
func (c *Client) Generate(ctx context.Context, req ports.CompletionRequest) (string, error) {
	deployment, ok := c.deployments[req.Mode]
	if !ok || deployment == "" {
		return "", domain.NewCompletionError(domain.CompletionConfiguration,
			fmt.Errorf("no deployment configured for mode %q", req.Mode))
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	messages = append(messages, chatMessage{Role: "system", Content: req.Instructions})
	for _, turn := range req.History {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Input})

	body, err := json.Marshal(chatRequest{Messages: messages, Temperature: defaultTemperature})
	if err != nil {
		return "", domain.NewCompletionError(domain.CompletionUnknown,
			fmt.Errorf("encode completion request: %w", err))
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.completionsURL(deployment), bytes.NewReader(body))
	if err != nil {
		return "", domain.NewCompletionError(domain.CompletionConfiguration,
			fmt.Errorf("create completion request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.NewCompletionError(domain.CompletionConnection,
			fmt.Errorf("call completion endpoint: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", domain.NewCompletionError(domain.CompletionConnection,
			fmt.Errorf("read completion response: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", c.classifyStatus(resp.StatusCode, payload, deployment)
	}

	var completion chatResponse
	if err := json.Unmarshal(payload, &completion); err != nil {
		return "", domain.NewCompletionError(domain.CompletionUnknown,
			fmt.Errorf("decode completion response: %w", err))
	}
	if completion.Error != nil {
		return "", domain.NewCompletionError(domain.CompletionUnknown,
			fmt.Errorf("completion error %s: %s", completion.Error.Code, completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return "", domain.NewCompletionError(domain.CompletionUnknown,
			errors.New("completion response has no choices"))
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	c.logger.Debug("completion call finished",
		zap.String("deployment", deployment),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("reply_len", len(reply)))

	return reply, nil
}

func (c *Client) completionsURL(deployment string) string {
	endpoint := *c.endpoint
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") +
		"/openai/deployments/" + url.PathEscape(deployment) + "/chat/completions"
	query := endpoint.Query()
	query.Set("api-version", c.apiVersion)
	endpoint.RawQuery = query.Encode()
	return endpoint.String()
}

// classifyStatus maps upstream HTTP status codes onto the error taxonomy.
// The raw body goes into the wrapped cause for the operator log; the user
// only ever sees the kind's fixed message.
func (c *Client) classifyStatus(status int, body []byte, deployment string) *domain.CompletionError {
	cause := fmt.Errorf("completion endpoint returned status %d: %s", status, upstreamDetail(body))

	var kind domain.CompletionErrorKind
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.CompletionAuthentication
	case status == http.StatusNotFound:
		kind = domain.CompletionModelUnavailable
	case status == http.StatusTooManyRequests:
		kind = domain.CompletionRateLimited
	case status >= http.StatusInternalServerError:
		kind = domain.CompletionConnection
	default:
		kind = domain.CompletionUnknown
	}

	c.logger.Warn("completion call failed",
		zap.String("deployment", deployment),
		zap.Int("status", status),
		zap.String("kind", string(kind)))

	return domain.NewCompletionError(kind, cause)
}

func upstreamDetail(body []byte) string {
	var payload chatResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		return payload.Error.Code + ": " + payload.Error.Message
	}
	return string(body)
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
