// Package config loads, normalizes, and validates promptkit configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and OPENROUTER_API_KEY. The Config type is the configuration
// provider for the LLM transport: backend selection, credentials, endpoint,
// and the model identifiers behind the standard and advanced tiers.
//
// Always obtain settings through this package so downstream code receives
// resolved backend defaults, sanitized paths, and clear validation errors.
package config
