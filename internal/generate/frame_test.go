package generate

import (
	"testing"

	"promptkit/internal/services/llm"
)

func TestFramePromptStandard(t *testing.T) {
	got := FramePrompt("Name a color.", "blue", "Answer in one word.", llm.TierStandard)
	want := "\"\"\"\nName a color.\n\"\"\"\n" +
		"Output the response to the prompt above in json. Answer in one word.\n" +
		"Example output json:\n" +
		"{\"output\": \"blue\"}"
	if got != want {
		t.Fatalf("FramePrompt() =\n%s\nwant\n%s", got, want)
	}
}

func TestFramePromptAdvanced(t *testing.T) {
	got := FramePrompt("p", 3, "", llm.TierAdvanced)
	want := "GPT-3 Prompt:\n\"\"\"\np\n\"\"\"\n" +
		"Output the response to the prompt above in json. \n" +
		"Example output json:\n" +
		"{\"output\": \"3\"}"
	if got != want {
		t.Fatalf("FramePrompt() =\n%s\nwant\n%s", got, want)
	}
}

func TestMaxWordsAndAll(t *testing.T) {
	v := All(NonEmpty(), MaxWords(2))
	if ok, _ := v.Validate("one two", ""); !ok {
		t.Fatal("expected two words to pass")
	}
	if ok, err := v.Validate("one two three", ""); ok || err == nil {
		t.Fatalf("expected rejection with reason, got ok=%v err=%v", ok, err)
	}
	if ok, _ := v.Validate("   ", ""); ok {
		t.Fatal("expected blank to fail")
	}
}
