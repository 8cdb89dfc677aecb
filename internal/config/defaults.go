package config

const (
	defaultConfigPath            = "~/.config/promptkit/config.toml"
	defaultBackend               = BackendOpenAI
	defaultOpenAIBaseURL         = "https://api.openai.com/v1"
	defaultOpenRouterBaseURL     = "https://openrouter.ai/api/v1"
	defaultOpenAIChatModel       = "gpt-3.5-turbo"
	defaultOpenAIAdvancedModel   = "gpt-4"
	defaultOpenRouterChatModel   = "openai/gpt-3.5-turbo"
	defaultOpenRouterAdvanced    = "openai/gpt-4"
	defaultEmbeddingModel        = "text-embedding-ada-002"
	defaultReferer               = "https://github.com/promptkit/promptkit"
	defaultTitle                 = "promptkit"
	defaultLLMTimeoutSeconds     = 60
	defaultLLMMaxRetries         = 2
	defaultThrottleMillis        = 100
	defaultPromptsDir            = "~/.config/promptkit/prompts"
	defaultGenerationMaxAttempts = 3
	defaultGenerationFailSafe    = "error"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultKeyOwner              = "unknown"
)

// Default returns a Config populated with repository defaults. Backend-specific
// endpoint and model defaults are filled during normalization so a config that
// only flips llm.backend picks up the right values.
func Default() Config {
	return Config{
		LLM: LLM{
			Backend:        defaultBackend,
			EmbeddingModel: defaultEmbeddingModel,
			Referer:        defaultReferer,
			Title:          defaultTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxRetries:     defaultLLMMaxRetries,
			ThrottleMillis: defaultThrottleMillis,
		},
		Owner: Owner{
			KeyOwner: defaultKeyOwner,
		},
		Prompts: Prompts{
			Dir: defaultPromptsDir,
		},
		Generation: Generation{
			MaxAttempts: defaultGenerationMaxAttempts,
			FailSafe:    defaultGenerationFailSafe,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
