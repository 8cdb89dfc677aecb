package prompt_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"promptkit/internal/prompt"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		inputs   []any
		want     string
	}{
		{name: "single", template: "Hello !<INPUT 0>!", inputs: []any{"Ada"}, want: "Hello Ada"},
		{name: "repeated", template: "!<INPUT 0>! and !<INPUT 0>!", inputs: []any{"x"}, want: "x and x"},
		{name: "out of order", template: "!<INPUT 1>!-!<INPUT 0>!", inputs: []any{"a", "b"}, want: "b-a"},
		{name: "non string", template: "n=!<INPUT 0>! ok=!<INPUT 1>!", inputs: []any{42, true}, want: "n=42 ok=True"},
		{name: "floats keep a fraction", template: "!<INPUT 0>! !<INPUT 1>! !<INPUT 2>!", inputs: []any{1.0, 2.5, false}, want: "1.0 2.5 False"},
		{name: "nil is None", template: "v=!<INPUT 0>!", inputs: []any{nil}, want: "v=None"},
		{name: "missing input stays verbatim", template: "!<INPUT 0>! !<INPUT 3>!", inputs: []any{"a"}, want: "a !<INPUT 3>!"},
		{name: "surplus inputs ignored", template: "only !<INPUT 0>!", inputs: []any{"a", "b", "c"}, want: "only a"},
		{name: "two digit index", template: "!<INPUT 10>!|!<INPUT 1>!", inputs: []any{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "ten"}, want: "ten|1"},
		{name: "trims whitespace", template: "\n  body !<INPUT 0>!  \n", inputs: []any{"x"}, want: "body x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prompt.Render(tt.template, tt.inputs...); got != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderFlattensSingleSlice(t *testing.T) {
	got := prompt.Render("!<INPUT 0>!+!<INPUT 1>!", []string{"a", "b"})
	if got != "a+b" {
		t.Fatalf("expected flattened slice, got %q", got)
	}
	got = prompt.Render("!<INPUT 0>!+!<INPUT 1>!", []any{"a", 2})
	if got != "a+2" {
		t.Fatalf("expected flattened []any, got %q", got)
	}
}

func TestRenderFlattensTypedSlices(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "ints", input: []int{1, 2}, want: "a=1 b=2"},
		{name: "floats", input: []float64{0.5, 3}, want: "a=0.5 b=3.0"},
		{name: "array", input: [2]string{"x", "y"}, want: "a=x b=y"},
		{name: "bytes stay whole", input: []byte("hi"), want: "a=[104 105] b=!<INPUT 1>!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prompt.Render("a=!<INPUT 0>! b=!<INPUT 1>!", tt.input); got != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDoesNotExpandInputs(t *testing.T) {
	got := prompt.Render("!<INPUT 0>! / !<INPUT 1>!", "!<INPUT 1>!", "b")
	if got != "!<INPUT 1>! / b" {
		t.Fatalf("input text was re-expanded: %q", got)
	}
}

func TestRenderStripsDocumentationHeader(t *testing.T) {
	template := "Variables:\n!<INPUT 0>! -- name\n" + prompt.CommentMarker + "\n\nGreet !<INPUT 0>!.\n"
	if got := prompt.Render(template, "Ada"); got != "Greet Ada." {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRenderStopsAtRepeatedMarker(t *testing.T) {
	template := "doc" + prompt.CommentMarker + " body " + prompt.CommentMarker + " trailing"
	if got := prompt.Render(template); got != "body" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	template := "header" + prompt.CommentMarker + "Summarize !<INPUT 0>! for !<INPUT 1>!"
	first := prompt.Render(template, "notes", "Ada")
	second := prompt.Render(template, "notes", "Ada")
	if first != second {
		t.Fatalf("render not deterministic: %q vs %q", first, second)
	}
	if strings.Contains(first, "!<INPUT") {
		t.Fatalf("placeholders left in %q", first)
	}
}

func TestRenderStrictReportsMismatches(t *testing.T) {
	out, err := prompt.RenderStrict("!<INPUT 0>! !<INPUT 2>!", "a", "b")
	if out != "a !<INPUT 2>!" {
		t.Fatalf("unexpected render %q", out)
	}
	var mismatch *prompt.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if len(mismatch.Missing) != 1 || mismatch.Missing[0] != 2 {
		t.Fatalf("unexpected missing %v", mismatch.Missing)
	}
	if len(mismatch.Unused) != 1 || mismatch.Unused[0] != 1 {
		t.Fatalf("unexpected unused %v", mismatch.Unused)
	}

	if _, err := prompt.RenderStrict("!<INPUT 0>!", "a"); err != nil {
		t.Fatalf("expected clean render, got %v", err)
	}
}

type mapSource map[string]string

func (m mapSource) Load(_ context.Context, name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", errors.New("missing " + name)
	}
	return text, nil
}

func TestRenderFile(t *testing.T) {
	src := mapSource{"greet": "Hi !<INPUT 0>!"}
	got, err := prompt.RenderFile(context.Background(), src, "greet", "Ada")
	if err != nil {
		t.Fatalf("RenderFile returned error: %v", err)
	}
	if got != "Hi Ada" {
		t.Fatalf("unexpected render %q", got)
	}
	if _, err := prompt.RenderFile(context.Background(), src, "nope"); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
