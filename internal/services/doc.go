// Package services defines shared utilities consumed by the generation engine
// and the LLM transport.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers, attempt numbers, and
//     model tiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (transport, extraction, validation, configuration) so callers can decide
//     between retrying, surfacing, or falling back.
package services
