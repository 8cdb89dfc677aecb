package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Missing API keys are not an
// error here: commands that only render prompts or manage the prompt store run
// without credentials, and the preflight checks report the gap.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Backend {
	case BackendOpenAI, BackendOpenRouter:
	default:
		return fmt.Errorf("llm.backend must be %q or %q, got %q", BackendOpenAI, BackendOpenRouter, c.LLM.Backend)
	}
	parsed, err := url.Parse(c.LLM.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("llm.base_url must be an absolute URL, got %q", c.LLM.BaseURL)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.MaxAttempts < 1 {
		return errors.New("generation.max_attempts must be >= 1")
	}
	return nil
}

// MissingCredentials reports why the active backend cannot authenticate, or ""
// when a usable key is present. Keys still holding the sample placeholder
// (for example "<your key>") count as missing.
func (c *Config) MissingCredentials() string {
	key, field := c.LLM.APIKey, "llm.api_key (or OPENAI_API_KEY)"
	if c.LLM.Backend == BackendOpenRouter {
		key, field = c.LLM.OpenRouterAPIKey, "llm.openrouter_api_key (or OPENROUTER_API_KEY)"
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "<") {
		return field + " is not set"
	}
	return ""
}
