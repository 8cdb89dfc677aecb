package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Reply scripts one response of a FakeLLM. A zero Status means 200. When Body
// is set it is written verbatim; otherwise a chat or embedding envelope is
// built from Content or Embedding depending on the request path.
type Reply struct {
	Status    int
	Header    map[string]string
	Body      string
	Content   string
	Embedding []float64
}

// RecordedRequest captures one call received by a FakeLLM.
type RecordedRequest struct {
	Path   string
	Header http.Header
	Body   map[string]any
}

// FakeLLM is an OpenAI-compatible test server that replays scripted replies.
// After the script runs out the last reply repeats.
type FakeLLM struct {
	server *httptest.Server

	mu       sync.Mutex
	replies  []Reply
	requests []RecordedRequest
}

// NewFakeLLM starts a fake server and closes it when the test ends.
func NewFakeLLM(t testing.TB, replies ...Reply) *FakeLLM {
	t.Helper()

	fake := &FakeLLM{replies: replies}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		fake.mu.Lock()
		idx := len(fake.requests)
		fake.requests = append(fake.requests, RecordedRequest{Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		var reply Reply
		if len(fake.replies) > 0 {
			if idx >= len(fake.replies) {
				idx = len(fake.replies) - 1
			}
			reply = fake.replies[idx]
		}
		fake.mu.Unlock()

		for k, v := range reply.Header {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		status := reply.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)

		if reply.Body != "" {
			_, _ = io.WriteString(w, reply.Body)
			return
		}
		var payload any
		if strings.HasSuffix(r.URL.Path, "/embeddings") {
			payload = map[string]any{
				"data": []any{map[string]any{"embedding": reply.Embedding}},
			}
		} else {
			payload = map[string]any{
				"choices": []any{
					map[string]any{"message": map[string]any{"content": reply.Content}},
				},
			}
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(fake.server.Close)
	return fake
}

// URL is the base URL to configure ("<server>/v1").
func (f *FakeLLM) URL() string {
	return f.server.URL + "/v1"
}

// Requests returns a copy of every request received so far.
func (f *FakeLLM) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Count returns how many requests the server received.
func (f *FakeLLM) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// ChatContent builds a reply whose first choice carries content.
func ChatContent(content string) Reply {
	return Reply{Content: content}
}

// Status builds an error reply with the given HTTP status.
func Status(code int) Reply {
	return Reply{Status: code, Body: `{"error":{"message":"scripted failure"}}`}
}
