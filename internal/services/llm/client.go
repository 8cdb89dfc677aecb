package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"promptkit/internal/config"
	"promptkit/internal/logging"
	"promptkit/internal/services"
)

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultEmbeddingModel = "text-embedding-ada-002"

	// ErrorSentinel is returned by AdvancedRequest and ChatRequest in place of
	// an error.
	ErrorSentinel = "ChatGPT ERROR"
	// TokenLimitSentinel is returned by ParamRequest in place of an error.
	TokenLimitSentinel = "TOKEN LIMIT EXCEEDED"

	jsonResponseType = "json_object"
)

// Config captures the runtime settings required to talk to the service.
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	AdvancedModel  string
	EmbeddingModel string
	Referer        string
	Title          string
	Timeout        time.Duration
	// MaxRetries is the number of transport retries after the first try.
	MaxRetries int
	// Throttle is the pause taken before every request.
	Throttle time.Duration
}

// ConfigFrom converts the resolved TOML settings.
func ConfigFrom(cfg config.LLMConfig) Config {
	return Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		ChatModel:      cfg.ChatModel,
		AdvancedModel:  cfg.AdvancedModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		Throttle:       cfg.Throttle,
	}
}

// Client wraps the chat completion and embedding APIs. A Client is immutable
// after construction and safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	throttle         time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the total number of transport attempts.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithThrottle overrides the pre-request pause.
func WithThrottle(delay time.Duration) Option {
	return func(c *Client) {
		c.throttle = delay
	}
}

// WithSleeper overrides how throttle and retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	throttle := cfg.Throttle
	if throttle < 0 {
		throttle = 0
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			ChatModel:      strings.TrimSpace(cfg.ChatModel),
			AdvancedModel:  strings.TrimSpace(cfg.AdvancedModel),
			EmbeddingModel: strings.TrimSpace(cfg.EmbeddingModel),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			Timeout:        timeout,
			MaxRetries:     retries,
			Throttle:       throttle,
		},
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logging.NewNop(),
		retryMaxAttempts: retries + 1,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
		throttle:         throttle,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.openai.com/v1"
	}
	if client.cfg.ChatModel == "" {
		client.cfg.ChatModel = LegacyTargetModel
	}
	if client.cfg.AdvancedModel == "" {
		client.cfg.AdvancedModel = client.cfg.ChatModel
	}
	if client.cfg.EmbeddingModel == "" {
		client.cfg.EmbeddingModel = defaultEmbeddingModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	client.logger = logging.NewComponentLogger(client.logger, "llm")
	return client
}

// Model returns the model identifier serving tier.
func (c *Client) Model(tier Tier) string {
	if tier == TierAdvanced {
		return c.cfg.AdvancedModel
	}
	return c.cfg.ChatModel
}

// Request is one chat completion request. Params is optional; when nil only
// the model and message are sent and the service defaults apply.
type Request struct {
	Prompt string
	Params *Params
}

// Complete performs one logical chat call for tier and returns the first
// choice's text. Remote failures are *TransportError values; a missing API key
// is reported as services.ErrConfiguration before anything is sent.
func (c *Client) Complete(ctx context.Context, req Request, tier Tier) (string, error) {
	const op = "llm complete"
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", services.Wrap(services.ErrConfiguration, "llm", "complete", "api key required", nil)
	}

	payload := chatCompletionRequest{
		Model:    c.Model(tier),
		Messages: []chatMessage{{Role: "user", Content: req.Prompt}},
	}
	if req.Params != nil {
		p := req.Params.Resolve()
		payload.Model = ResolveModel(p.Engine, c.Model(tier))
		payload.Temperature = &p.Temperature
		payload.MaxTokens = p.MaxTokens
		payload.TopP = &p.TopP
		payload.FrequencyPenalty = &p.FrequencyPenalty
		payload.PresencePenalty = &p.PresencePenalty
		payload.Stop = p.Stop
	}

	if err := c.sleep(ctx, c.throttle); err != nil {
		return "", newTransportError(op, err)
	}

	logger := logging.WithContext(ctx, c.logger)
	started := time.Now()
	content, err := c.completionContentWithRetry(ctx, payload, op)
	if err != nil {
		return "", newTransportError(op, err)
	}
	logger.Debug("completion received",
		logging.String("model", payload.Model),
		logging.String(logging.FieldTier, tier.String()),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("chars", len(content)),
	)
	return content, nil
}

// SingleRequest sends prompt to the standard tier. Errors propagate.
func (c *Client) SingleRequest(ctx context.Context, prompt string) (string, error) {
	return c.Complete(ctx, Request{Prompt: prompt}, TierStandard)
}

// AdvancedRequest sends prompt to the advanced tier. Any failure is logged and
// ErrorSentinel is returned instead.
func (c *Client) AdvancedRequest(ctx context.Context, prompt string) string {
	return c.sentinelRequest(ctx, prompt, TierAdvanced)
}

// ChatRequest sends prompt to the standard tier. Any failure is logged and
// ErrorSentinel is returned instead.
func (c *Client) ChatRequest(ctx context.Context, prompt string) string {
	return c.sentinelRequest(ctx, prompt, TierStandard)
}

func (c *Client) sentinelRequest(ctx context.Context, prompt string, tier Tier) string {
	content, err := c.Complete(ctx, Request{Prompt: prompt}, tier)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "chat request failed", "llm_request_failed",
			logging.String(logging.FieldTier, tier.String()),
			logging.String("kind", string(kindOf(err))),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check api key, model name and network access"),
		)
		return ErrorSentinel
	}
	return content
}

// ParamRequest sends prompt with a legacy parameter set on the standard tier.
// Any failure is logged and TokenLimitSentinel is returned instead.
func (c *Client) ParamRequest(ctx context.Context, prompt string, params Params) string {
	content, err := c.Complete(ctx, Request{Prompt: prompt, Params: &params}, TierStandard)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "parameterized request failed", "llm_request_failed",
			logging.String("engine", params.Engine),
			logging.String("kind", string(kindOf(err))),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the prompt may exceed the model's token limit"),
		)
		return TokenLimitSentinel
	}
	return content
}

// HealthCheck issues a fast ping to verify the API key and chat model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return errors.New("llm health: api key required")
	}
	payload := chatCompletionRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: "You must respond with JSON only."},
			{Role: "user", Content: "Respond with {\"ok\":true}"},
		},
		Temperature:    new(float64),
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}
	content, err := c.completionContentWithRetry(ctx, payload, "llm health")
	if err != nil {
		return newTransportError("llm health", err)
	}
	ok, err := ExtractField(content, "ok")
	if err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	if ok != "true" {
		return fmt.Errorf("llm health: unexpected response (ok=%s)", ok)
	}
	return nil
}

func kindOf(err error) ErrorKind {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}
	if errors.Is(err, services.ErrConfiguration) {
		return "configuration"
	}
	return KindOther
}
