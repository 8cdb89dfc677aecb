package preflight

import (
	"context"

	"golang.org/x/sys/unix"

	"promptkit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	configuration := CheckConfiguration(cfg)
	results = append(results, configuration)

	results = append(results, CheckDirectoryAccess("Prompt directory", cfg.Prompts.Dir, unix.R_OK|unix.X_OK))

	if cfg.Prompts.DBPath != "" {
		results = append(results, CheckPromptLibrary(cfg.Prompts.DBPath))
	}

	if configuration.Passed {
		results = append(results, CheckLLM(ctx, "LLM API", cfg.GetLLM()))
	} else {
		results = append(results, Result{Name: "LLM API", Detail: "skipped (configuration incomplete)"})
	}

	return results
}
