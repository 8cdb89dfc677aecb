package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Backend names accepted by llm.backend.
const (
	BackendOpenAI     = "openai"
	BackendOpenRouter = "openrouter"
)

// LLM contains connection settings for the completion and embedding endpoints.
type LLM struct {
	Backend          string `toml:"backend"`
	APIKey           string `toml:"api_key"`
	OpenRouterAPIKey string `toml:"openrouter_api_key"`
	BaseURL          string `toml:"base_url"`
	ChatModel        string `toml:"chat_model"`
	AdvancedModel    string `toml:"advanced_model"`
	EmbeddingModel   string `toml:"embedding_model"`
	Referer          string `toml:"referer"`
	Title            string `toml:"title"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	MaxRetries       int    `toml:"max_retries"`
	ThrottleMillis   int    `toml:"throttle_millis"`
}

// Owner describes who the credentials belong to. Used for diagnostics only.
type Owner struct {
	KeyOwner string `toml:"key_owner"`
	Debug    bool   `toml:"debug"`
}

// Prompts locates the prompt store.
type Prompts struct {
	Dir    string `toml:"dir"`
	DBPath string `toml:"db_path"`
}

// Generation holds defaults for the validated retry loop.
type Generation struct {
	MaxAttempts int    `toml:"max_attempts"`
	FailSafe    string `toml:"fail_safe"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for promptkit.
//
// Configuration sections by subsystem:
//   - LLM: backend, credentials, endpoint, tier models, timeouts
//   - Owner: key owner and debug descriptor
//   - Prompts: template directory and optional SQLite library
//   - Generation: retry loop defaults
//   - Logging: log format and level
type Config struct {
	LLM        LLM        `toml:"llm"`
	Owner      Owner      `toml:"owner"`
	Prompts    Prompts    `toml:"prompts"`
	Generation Generation `toml:"generation"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and backend defaults resolved.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("promptkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the prompt directory and the parent of the prompt
// database so first runs have somewhere to read from.
func (c *Config) EnsureDirectories() error {
	if dir := strings.TrimSpace(c.Prompts.Dir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if db := strings.TrimSpace(c.Prompts.DBPath); db != "" {
		if err := os.MkdirAll(filepath.Dir(db), 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", filepath.Dir(db), err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the resolved connection settings for the active backend.
type LLMConfig struct {
	Backend        string
	APIKey         string
	BaseURL        string
	ChatModel      string
	AdvancedModel  string
	EmbeddingModel string
	Referer        string
	Title          string
	Timeout        time.Duration
	MaxRetries     int
	Throttle       time.Duration
}

// GetLLM returns the connection settings for the selected backend. The API key
// is the OpenRouter key when the OpenRouter backend is selected.
func (c *Config) GetLLM() LLMConfig {
	key := strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.Backend == BackendOpenRouter {
		key = strings.TrimSpace(c.LLM.OpenRouterAPIKey)
	}
	return LLMConfig{
		Backend:        c.LLM.Backend,
		APIKey:         key,
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		ChatModel:      strings.TrimSpace(c.LLM.ChatModel),
		AdvancedModel:  strings.TrimSpace(c.LLM.AdvancedModel),
		EmbeddingModel: strings.TrimSpace(c.LLM.EmbeddingModel),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		Timeout:        time.Duration(c.LLM.TimeoutSeconds) * time.Second,
		MaxRetries:     c.LLM.MaxRetries,
		Throttle:       time.Duration(c.LLM.ThrottleMillis) * time.Millisecond,
	}
}

// UsesOpenRouter reports whether requests go through OpenRouter.
func (c *Config) UsesOpenRouter() bool {
	return c.LLM.Backend == BackendOpenRouter
}
