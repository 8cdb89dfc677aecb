package generate

import (
	"fmt"
	"strings"
)

// AcceptAll passes every candidate.
func AcceptAll() ValidatorFunc {
	return func(string, string) (bool, error) { return true, nil }
}

// NonEmpty rejects blank candidates.
func NonEmpty() ValidatorFunc {
	return func(candidate, _ string) (bool, error) {
		return strings.TrimSpace(candidate) != "", nil
	}
}

// MaxWords rejects candidates longer than n whitespace-separated words.
func MaxWords(n int) ValidatorFunc {
	return func(candidate, _ string) (bool, error) {
		words := len(strings.Fields(candidate))
		if words == 0 {
			return false, nil
		}
		if words > n {
			return false, fmt.Errorf("%d words exceeds limit of %d", words, n)
		}
		return true, nil
	}
}

// All accepts a candidate only when every validator does.
func All(validators ...Validator) ValidatorFunc {
	return func(candidate, prompt string) (bool, error) {
		for _, v := range validators {
			if v == nil {
				continue
			}
			ok, err := v.Validate(candidate, prompt)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// TrimSpace is a cleaner that strips surrounding whitespace.
func TrimSpace() CleanerFunc[string] {
	return func(candidate, _ string) (string, error) {
		return strings.TrimSpace(candidate), nil
	}
}
