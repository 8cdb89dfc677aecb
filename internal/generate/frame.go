package generate

import (
	"fmt"
	"strings"

	"promptkit/internal/services/llm"
)

// FramePrompt wraps prompt in triple quotes, asks for a JSON answer and shows
// the expected {"output": ...} shape. The advanced tier labels the quoted
// block as a prompt.
func FramePrompt(prompt string, example any, instruction string, tier llm.Tier) string {
	var b strings.Builder
	if tier == llm.TierAdvanced {
		b.WriteString("GPT-3 Prompt:\n")
	}
	b.WriteString(`"""` + "\n")
	b.WriteString(prompt)
	b.WriteString("\n" + `"""` + "\n")
	b.WriteString("Output the response to the prompt above in json. ")
	b.WriteString(instruction)
	b.WriteString("\n")
	b.WriteString("Example output json:\n")
	b.WriteString(`{"output": "`)
	b.WriteString(exampleText(example))
	b.WriteString(`"}`)
	return b.String()
}

func exampleText(example any) string {
	switch v := example.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
