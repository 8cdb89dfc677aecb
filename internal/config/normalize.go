package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeLLM()
	if err := c.normalizePrompts(); err != nil {
		return err
	}
	c.normalizeGeneration()
	c.normalizeLogging()
	c.Owner.KeyOwner = strings.TrimSpace(c.Owner.KeyOwner)
	if c.Owner.KeyOwner == "" {
		c.Owner.KeyOwner = defaultKeyOwner
	}
	return nil
}

func (c *Config) normalizeLLM() {
	if value, ok := os.LookupEnv("PROMPTKIT_BACKEND"); ok && strings.TrimSpace(value) != "" {
		c.LLM.Backend = value
	}
	c.LLM.Backend = strings.ToLower(strings.TrimSpace(c.LLM.Backend))
	if c.LLM.Backend == "" {
		c.LLM.Backend = defaultBackend
	}

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.OpenRouterAPIKey = strings.TrimSpace(c.LLM.OpenRouterAPIKey)
	if c.LLM.OpenRouterAPIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.OpenRouterAPIKey = strings.TrimSpace(value)
		}
	}

	baseURL, chat, advanced := defaultOpenAIBaseURL, defaultOpenAIChatModel, defaultOpenAIAdvancedModel
	if c.LLM.Backend == BackendOpenRouter {
		baseURL, chat, advanced = defaultOpenRouterBaseURL, defaultOpenRouterChatModel, defaultOpenRouterAdvanced
	}
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = baseURL
	}
	c.LLM.ChatModel = strings.TrimSpace(c.LLM.ChatModel)
	if c.LLM.ChatModel == "" {
		c.LLM.ChatModel = chat
	}
	c.LLM.AdvancedModel = strings.TrimSpace(c.LLM.AdvancedModel)
	if c.LLM.AdvancedModel == "" {
		c.LLM.AdvancedModel = advanced
	}
	c.LLM.EmbeddingModel = strings.TrimSpace(c.LLM.EmbeddingModel)
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = defaultEmbeddingModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.MaxRetries < 0 {
		c.LLM.MaxRetries = 0
	}
	if c.LLM.ThrottleMillis < 0 {
		c.LLM.ThrottleMillis = 0
	}
}

func (c *Config) normalizePrompts() error {
	var err error
	if strings.TrimSpace(c.Prompts.Dir) == "" {
		c.Prompts.Dir = defaultPromptsDir
	}
	if c.Prompts.Dir, err = expandPath(strings.TrimSpace(c.Prompts.Dir)); err != nil {
		return fmt.Errorf("prompts.dir: %w", err)
	}
	if c.Prompts.DBPath, err = expandPath(strings.TrimSpace(c.Prompts.DBPath)); err != nil {
		return fmt.Errorf("prompts.db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeGeneration() {
	if c.Generation.MaxAttempts <= 0 {
		c.Generation.MaxAttempts = defaultGenerationMaxAttempts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Owner.Debug && c.Logging.Level == defaultLogLevel {
		c.Logging.Level = "debug"
	}
}
