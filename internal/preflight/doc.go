// Package preflight provides readiness checks for the configuration, prompt
// storage and LLM endpoint that promptkit depends on.
//
// The CLI "promptkit check" command runs RunAll and renders the results as a
// table. The live API ping only runs when the configuration checks pass, so a
// missing key is reported once instead of as a failed network call.
package preflight
