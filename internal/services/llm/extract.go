package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"promptkit/internal/services"
)

// OutputField is the field the framed prompts ask the model to fill.
const OutputField = "output"

// ExtractionError reports why no field value could be read from a response.
// It matches services.ErrExtraction via errors.Is.
type ExtractionError struct {
	Field   string
	Reason  string
	Snippet string
	Err     error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extract %q: %s (response_snippet=%s)", e.Field, e.Reason, e.Snippet)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrExtraction}
	}
	return []error{services.ErrExtraction, e.Err}
}

// ExtractField reads field from the JSON object in raw. The response is cut
// at its last closing brace, so trailing prose is ignored; leading prose and
// Markdown code fences are skipped by retrying from the first opening brace.
// String values are returned as-is, anything else as compact JSON text.
func ExtractField(raw, field string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	end := strings.LastIndex(trimmed, "}")
	if end < 0 {
		return "", &ExtractionError{Field: field, Reason: "no closing brace", Snippet: snippet(trimmed)}
	}
	candidate := trimmed[:end+1]

	obj, err := decodeObject(candidate)
	if err != nil {
		salvaged := salvageObject(candidate)
		if salvaged == candidate {
			return "", &ExtractionError{Field: field, Reason: "malformed json", Snippet: snippet(candidate), Err: err}
		}
		var retryErr error
		obj, retryErr = decodeObject(salvaged)
		if retryErr != nil {
			return "", &ExtractionError{Field: field, Reason: "malformed json", Snippet: snippet(candidate), Err: err}
		}
	}

	schema, err := fieldSchema(field)
	if err != nil {
		return "", &ExtractionError{Field: field, Reason: "schema compile", Err: err}
	}
	if err := schema.Validate(obj); err != nil {
		return "", &ExtractionError{Field: field, Reason: "missing field", Snippet: snippet(candidate), Err: err}
	}

	value := obj.(map[string]any)[field]
	if s, ok := value.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", &ExtractionError{Field: field, Reason: "encode value", Err: err}
	}
	return string(encoded), nil
}

// ExtractOutput reads the "output" field used by framed prompts.
func ExtractOutput(raw string) (string, error) {
	return ExtractField(raw, OutputField)
}

// salvageObject drops a Markdown code fence and any prose before the first
// opening brace.
func salvageObject(text string) string {
	text = strings.TrimSpace(text)
	if body, fenced := strings.CutPrefix(text, "```"); fenced {
		body = strings.TrimLeft(body, " \t\r\n")
		if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
			body = body[4:]
		}
		if i := strings.LastIndex(body, "```"); i >= 0 {
			body = body[:i]
		}
		text = strings.TrimSpace(body)
	}
	if start := strings.Index(text, "{"); start > 0 {
		text = text[start:]
	}
	return text
}

const snippetLimit = 160

// snippet collapses whitespace and truncates content for error messages.
func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	if runes := []rune(clean); len(runes) > snippetLimit {
		clean = string(runes[:snippetLimit]) + "..."
	}
	return clean
}

func decodeObject(text string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after json value")
	}
	return value, nil
}

var schemaCache sync.Map

// fieldSchema compiles (once per field) a schema requiring an object with field.
func fieldSchema(field string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(field); ok {
		return cached.(*jsonschema.Schema), nil
	}
	doc, err := json.Marshal(map[string]any{
		"type":     "object",
		"required": []string{field},
	})
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("field.json", bytes.NewReader(doc)); err != nil {
		return nil, err
	}
	compiled, err := compiler.Compile("field.json")
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(field, compiled)
	return actual.(*jsonschema.Schema), nil
}
