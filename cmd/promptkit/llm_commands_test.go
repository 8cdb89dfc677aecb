package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptkit/internal/services/llm"
	"promptkit/internal/testsupport"
)

func TestCompleteCommandPrintsResponse(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.ChatContent("the answer"))
	env := setupCLITestEnv(t, fake.URL())

	out, _, err := runCLI(t, []string{"complete", "what", "is", "it?"}, env.configPath)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if strings.TrimSpace(out) != "the answer" {
		t.Fatalf("unexpected output %q", out)
	}
	reqs := fake.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Body["model"] != "chat-model" {
		t.Fatalf("expected standard tier model, got %v", reqs[0].Body["model"])
	}
}

func TestCompleteCommandFromTemplateAdvancedTier(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.ChatContent("ok"))
	env := setupCLITestEnv(t, fake.URL())
	testsupport.WriteTemplate(t, env.cfg.Prompts.Dir, "ask", "Tell me about !<INPUT 0>!")

	_, _, err := runCLI(t, []string{"complete", "--tier", "advanced", "-t", "ask", "-i", "otters"}, env.configPath)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	req := fake.Requests()[0]
	if req.Body["model"] != "advanced-model" {
		t.Fatalf("expected advanced tier model, got %v", req.Body["model"])
	}
	messages, _ := req.Body["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected one message, got %v", req.Body["messages"])
	}
	msg, _ := messages[0].(map[string]any)
	if msg["content"] != "Tell me about otters" {
		t.Fatalf("unexpected prompt %v", msg["content"])
	}
}

func TestCompleteCommandErrorsAndSentinels(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.Status(500))
	env := setupCLITestEnv(t, fake.URL())

	if _, _, err := runCLI(t, []string{"complete", "hello"}, env.configPath); err == nil {
		t.Fatal("expected transport error to propagate")
	}

	out, _, err := runCLI(t, []string{"complete", "--safe", "hello"}, env.configPath)
	if err != nil {
		t.Fatalf("complete --safe: %v", err)
	}
	if strings.TrimSpace(out) != llm.ErrorSentinel {
		t.Fatalf("expected error sentinel, got %q", out)
	}

	paramsPath := filepath.Join(env.baseDir, "params.yaml")
	if err := os.WriteFile(paramsPath, []byte("engine: text-davinci-003\nmax_tokens: 20\nstop: \"\\n\"\n"), 0o644); err != nil {
		t.Fatalf("write params: %v", err)
	}
	out, _, err = runCLI(t, []string{"complete", "--params", paramsPath, "hello"}, env.configPath)
	if err != nil {
		t.Fatalf("complete --params: %v", err)
	}
	if strings.TrimSpace(out) != llm.TokenLimitSentinel {
		t.Fatalf("expected token limit sentinel, got %q", out)
	}

	reqs := fake.Requests()
	last := reqs[len(reqs)-1]
	if last.Body["model"] != llm.LegacyTargetModel {
		t.Fatalf("expected legacy engine remap, got %v", last.Body["model"])
	}
	if last.Body["max_tokens"] != float64(20) {
		t.Fatalf("expected max_tokens 20, got %v", last.Body["max_tokens"])
	}
}

func TestCompleteCommandRequiresCredentials(t *testing.T) {
	env := setupCLITestEnv(t, "http://127.0.0.1:0/v1")
	env.cfg.LLM.APIKey = ""
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"complete", "hello"}, env.configPath)
	if err == nil {
		t.Fatal("expected missing credentials error")
	}
	requireContains(t, err.Error(), "llm.api_key")
}

func TestGenerateCommandAcceptsCleanedValue(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.ChatContent(`Sure! {"output": "  bright idea  "}`))
	env := setupCLITestEnv(t, fake.URL())

	out, _, err := runCLI(t, []string{"generate", "--example", "an idea", "give", "me", "an", "idea"}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.TrimSpace(out) != "bright idea" {
		t.Fatalf("unexpected output %q", out)
	}
	msg := fake.Requests()[0].Body["messages"].([]any)[0].(map[string]any)
	requireContains(t, msg["content"].(string), `{"output": "an idea"}`)
}

func TestGenerateCommandFailSafe(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.Status(500))
	env := setupCLITestEnv(t, fake.URL())

	out, _, err := runCLI(t, []string{"generate", "anything"}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.TrimSpace(out) != "fallback" {
		t.Fatalf("expected configured fail-safe, got %q", out)
	}
	if fake.Count() != 2 {
		t.Fatalf("expected 2 attempts from config, got %d", fake.Count())
	}

	out, stderr, err := runCLI(t, []string{"generate", "--attempts", "3", "--fail-safe", "nope", "--trace", "anything"}, env.configPath)
	if err != nil {
		t.Fatalf("generate override: %v", err)
	}
	if strings.TrimSpace(out) != "nope" {
		t.Fatalf("expected flag fail-safe, got %q", out)
	}
	if fake.Count() != 5 {
		t.Fatalf("expected 3 more attempts, got %d total", fake.Count())
	}
	requireContains(t, stderr, "transport")
}

func TestGenerateCommandJSONAndValidation(t *testing.T) {
	fake := testsupport.NewFakeLLM(t,
		testsupport.ChatContent(`{"output": "far too many words here"}`),
		testsupport.ChatContent(`{"output": "short"}`),
	)
	env := setupCLITestEnv(t, fake.URL())

	out, _, err := runCLI(t, []string{"generate", "--max-words", "2", "--json", "be brief"}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var got generateOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v (%s)", err, out)
	}
	if !got.Succeeded || got.Value != "short" {
		t.Fatalf("unexpected outcome %+v", got)
	}
	if len(got.Attempts) != 2 || got.Attempts[0].Stage != "validate" || got.Attempts[1].Stage != "accepted" {
		t.Fatalf("unexpected attempts %+v", got.Attempts)
	}
	if got.RequestID == "" {
		t.Fatal("expected request id")
	}
}

func TestGenerateCommandRejectsZeroAttempts(t *testing.T) {
	env := setupCLITestEnv(t, "http://127.0.0.1:0/v1")

	if _, _, err := runCLI(t, []string{"generate", "--attempts", "0", "x"}, env.configPath); err == nil {
		t.Fatal("expected invalid attempts error")
	}
}

func TestEmbedCommand(t *testing.T) {
	fake := testsupport.NewFakeLLM(t, testsupport.Reply{Embedding: []float64{0.5, -0.25, 1}})
	env := setupCLITestEnv(t, fake.URL())

	out, _, err := runCLI(t, []string{"embed", "line one\nline two"}, env.configPath)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	requireContains(t, out, "dimensions: 3")
	requireContains(t, out, "[0.500000, -0.250000, 1.000000]")

	req := fake.Requests()[0]
	if req.Path != "/v1/embeddings" {
		t.Fatalf("unexpected path %s", req.Path)
	}
	if got := embeddingInput(req); got != "line one line two" {
		t.Fatalf("expected newlines replaced, got %q", got)
	}

	out, _, err = runCLI(t, []string{"embed", "--json", ""}, env.configPath)
	if err != nil {
		t.Fatalf("embed --json: %v", err)
	}
	var vector []float64
	if err := json.Unmarshal([]byte(out), &vector); err != nil || len(vector) != 3 {
		t.Fatalf("unexpected vector output %q (%v)", out, err)
	}
	if got := embeddingInput(fake.Requests()[1]); got != llm.BlankEmbeddingText {
		t.Fatalf("expected blank placeholder, got %q", got)
	}
}

func embeddingInput(req testsupport.RecordedRequest) string {
	inputs, _ := req.Body["input"].([]any)
	if len(inputs) != 1 {
		return ""
	}
	s, _ := inputs[0].(string)
	return s
}
