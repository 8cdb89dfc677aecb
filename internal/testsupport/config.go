package testsupport

import (
	"path/filepath"
	"testing"

	"promptkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The OpenAI backend is selected with a dummy key and no throttle.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.BaseURL = "http://127.0.0.1:0/v1"
	cfgVal.LLM.ChatModel = "chat-model"
	cfgVal.LLM.AdvancedModel = "advanced-model"
	cfgVal.LLM.ThrottleMillis = 0
	cfgVal.Prompts.Dir = filepath.Join(base, "prompts")
	cfgVal.Prompts.DBPath = filepath.Join(base, "prompts.db")

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIKey sets the OpenAI API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}

// WithBaseURL points the LLM client at a fake server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithTemplates writes the given name→body templates into the prompt directory.
func WithTemplates(templates map[string]string) ConfigOption {
	return func(b *configBuilder) {
		for name, body := range templates {
			WriteTemplate(b.t, b.cfg.Prompts.Dir, name, body)
		}
	}
}

