package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"promptkit/internal/config"
	"promptkit/internal/services/llm"
)

// CheckConfiguration verifies the backend has usable credentials and names the
// models in use.
func CheckConfiguration(cfg *config.Config) Result {
	const name = "Configuration"
	if missing := cfg.MissingCredentials(); missing != "" {
		return Result{Name: name, Detail: missing}
	}
	llmCfg := cfg.GetLLM()
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s backend (chat=%s, advanced=%s, owner=%s, debug=%t)",
			llmCfg.Backend, llmCfg.ChatModel, llmCfg.AdvancedModel, cfg.Owner.KeyOwner, cfg.Owner.Debug),
	}
}

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.ConfigFrom(cfg), llm.WithRetryMaxAttempts(1), llm.WithThrottle(0))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (model %s)", cfg.ChatModel)}
}

// CheckDirectoryAccess verifies that the directory exists and grants mode
// (a combination of unix.R_OK, unix.W_OK and unix.X_OK).
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, describeMode(mode))}
}

// CheckPromptLibrary verifies the SQLite prompt library can be created or
// opened: its directory must be writable.
func CheckPromptLibrary(dbPath string) Result {
	const name = "Prompt library"
	result := CheckDirectoryAccess(name, filepath.Dir(dbPath), unix.R_OK|unix.W_OK|unix.X_OK)
	if !result.Passed {
		return result
	}
	if _, err := os.Stat(dbPath); err != nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created on import)", dbPath)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (present)", dbPath)}
}

func describeMode(mode uint32) string {
	switch {
	case mode&unix.W_OK != 0 && mode&unix.R_OK != 0:
		return "read/write"
	case mode&unix.W_OK != 0:
		return "write"
	default:
		return "read"
	}
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	var te *llm.TransportError
	if errors.As(err, &te) && te.StatusCode == 401 {
		return "authentication failed (check the API key)"
	}
	return err.Error()
}
