// Package llm talks to OpenAI-compatible chat completion and embedding
// endpoints (OpenAI directly or OpenRouter) and salvages structured values from
// free-text model output.
//
// # Entry Points
//
// NewClient: construct a client from Config (see ConfigFrom for the TOML form).
// Client.Complete: one logical chat call for a tier; errors propagate.
// Client.SingleRequest: standard tier, errors propagate.
// Client.AdvancedRequest / Client.ChatRequest: never fail; return ErrorSentinel.
// Client.ParamRequest: legacy parameter vocabulary; returns TokenLimitSentinel.
// Client.Embed: embedding vector for one text.
// Client.HealthCheck: verify the API key and chat model are usable.
// ExtractField: read one field from a JSON object embedded in model output.
//
// # Tiers
//
// TierStandard maps to the configured chat model, TierAdvanced to the
// advanced model. Parameter sets may name a legacy completion engine; those
// are remapped to gpt-3.5-turbo (see ResolveModel).
//
// # Retry Behaviour
//
// Every request is preceded by a short throttle pause. The client retries on
// HTTP 408/429/5xx, empty completions and network timeouts with exponential
// backoff honouring Retry-After (base 1s, max 10s, two retries by default).
// Context cancellation aborts retries immediately. Failures surface as
// *TransportError, which matches services.ErrTransport.
package llm
