package llm

import (
	"fmt"
	"strings"
)

// Tier selects which configured model serves a request.
type Tier int

const (
	TierStandard Tier = iota
	TierAdvanced
)

func (t Tier) String() string {
	switch t {
	case TierAdvanced:
		return "advanced"
	default:
		return "standard"
	}
}

// ParseTier accepts "standard"/"chat" and "advanced"/"gpt4". Empty input is
// the standard tier.
func ParseTier(value string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "standard", "chat":
		return TierStandard, nil
	case "advanced", "gpt4", "gpt-4":
		return TierAdvanced, nil
	default:
		return TierStandard, fmt.Errorf("unknown tier %q (want standard or advanced)", value)
	}
}
