package prompt

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// CommentMarker separates a template's documentation header from its body.
const CommentMarker = "<commentblockmarker>###</commentblockmarker>"

var placeholderPattern = regexp.MustCompile(`!<INPUT (\d+)>!`)

// Placeholder returns the placeholder text for position i.
func Placeholder(i int) string {
	return "!<INPUT " + strconv.Itoa(i) + ">!"
}

// Source supplies template text by name. Implementations must read through to
// their backing storage on every call.
type Source interface {
	Load(ctx context.Context, name string) (string, error)
}

// Render substitutes inputs into template and strips the documentation
// header. A single slice argument is treated as the full input sequence.
func Render(template string, inputs ...any) string {
	values := flatten(inputs)
	body := substitute(template, values)
	return stripHeader(body)
}

// MismatchError lists placeholders with no input and inputs with no
// placeholder.
type MismatchError struct {
	Missing []int
	Unused  []int
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("no input for placeholders %v", e.Missing))
	}
	if len(e.Unused) > 0 {
		parts = append(parts, fmt.Sprintf("inputs %v not referenced", e.Unused))
	}
	return "prompt template mismatch: " + strings.Join(parts, "; ")
}

// RenderStrict behaves like Render but also returns a *MismatchError when
// the template and the inputs disagree. The rendered text is always returned.
func RenderStrict(template string, inputs ...any) (string, error) {
	values := flatten(inputs)
	rendered := stripHeader(substitute(template, values))

	referenced := map[int]bool{}
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		idx, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		referenced[idx] = true
	}

	mismatch := &MismatchError{}
	for idx := range referenced {
		if idx >= len(values) {
			mismatch.Missing = append(mismatch.Missing, idx)
		}
	}
	for idx := range values {
		if !referenced[idx] {
			mismatch.Unused = append(mismatch.Unused, idx)
		}
	}
	if len(mismatch.Missing) == 0 && len(mismatch.Unused) == 0 {
		return rendered, nil
	}
	sort.Ints(mismatch.Missing)
	return rendered, mismatch
}

// RenderFile loads the named template from src and renders it.
func RenderFile(ctx context.Context, src Source, name string, inputs ...any) (string, error) {
	if src == nil {
		return "", errors.New("prompt source is nil")
	}
	template, err := src.Load(ctx, name)
	if err != nil {
		return "", err
	}
	return Render(template, inputs...), nil
}

// flatten expands a lone slice or array argument into the input sequence.
// Byte slices stay a single value.
func flatten(inputs []any) []string {
	if len(inputs) == 1 && inputs[0] != nil {
		if _, isBytes := inputs[0].([]byte); !isBytes {
			rv := reflect.ValueOf(inputs[0])
			if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
				values := make([]string, rv.Len())
				for i := range values {
					values[i] = stringify(rv.Index(i).Interface())
				}
				return values
			}
		}
	}
	values := make([]string, len(inputs))
	for i, in := range inputs {
		values[i] = stringify(in)
	}
	return values
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return val
	case bool:
		if val {
			return "True"
		}
		return "False"
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// formatFloat always keeps a fractional part, so 1 renders as "1.0".
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func substitute(template string, values []string) string {
	if len(values) == 0 {
		return template
	}
	pairs := make([]string, 0, len(values)*2)
	for i, v := range values {
		pairs = append(pairs, Placeholder(i), v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func stripHeader(text string) string {
	if parts := strings.SplitN(text, CommentMarker, 3); len(parts) > 1 {
		text = parts[1]
	}
	return strings.TrimSpace(text)
}
