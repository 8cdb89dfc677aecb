package preflight

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"promptkit/internal/config"
	"promptkit/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, unix.R_OK|unix.X_OK)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read ok") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), unix.R_OK)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, unix.R_OK)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckPromptLibrary(t *testing.T) {
	result := CheckPromptLibrary(filepath.Join(t.TempDir(), "prompts.db"))
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckConfigurationPlaceholderKey(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIKey("<your openai key>"))
	result := CheckConfiguration(cfg)
	if result.Passed {
		t.Fatalf("expected placeholder key to fail, got %+v", result)
	}
}

func TestCheckLLM_OK(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.ChatContent(`{"ok":true}`))
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(fake.URL()))

	result := CheckLLM(context.Background(), "LLM", cfg.GetLLM())
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckLLM_BadKey(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.Status(http.StatusUnauthorized))
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(fake.URL()))

	result := CheckLLM(context.Background(), "LLM", cfg.GetLLM())
	if result.Passed {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Detail, "authentication failed") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
	if fake.Count() != 1 {
		t.Fatalf("expected a single attempt, got %d", fake.Count())
	}
}

func TestCheckLLM_MissingKey(t *testing.T) {
	result := CheckLLM(context.Background(), "LLM", config.LLMConfig{})
	if result.Passed || result.Detail != "API key missing" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAllSkipsAPIWhenConfigIncomplete(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.ChatContent(`{"ok":true}`))
	cfg := testsupport.NewConfig(t, testsupport.WithAPIKey(""), testsupport.WithBaseURL(fake.URL()))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if AllPassed(results) {
		t.Fatalf("expected failures, got %+v", results)
	}
	last := results[len(results)-1]
	if last.Name != "LLM API" || !strings.Contains(last.Detail, "skipped") {
		t.Fatalf("expected skipped API check, got %+v", last)
	}
	if fake.Count() != 0 {
		t.Fatalf("expected no API calls, got %d", fake.Count())
	}
}

func TestRunAllPasses(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.ChatContent(`{"ok":true}`))
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(fake.URL()))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
}
