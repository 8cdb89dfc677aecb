package generate

import (
	"context"
	"fmt"

	"promptkit/internal/services"
	"promptkit/internal/services/llm"
)

// Completer performs one chat call. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request, tier llm.Tier) (string, error)
}

// Validator decides whether a candidate is acceptable. An error counts as a
// rejection.
type Validator interface {
	Validate(candidate, prompt string) (bool, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(candidate, prompt string) (bool, error)

func (f ValidatorFunc) Validate(candidate, prompt string) (bool, error) {
	return f(candidate, prompt)
}

// Cleaner turns a validated candidate into the final result. It runs at most
// once per run.
type Cleaner[T any] interface {
	Cleanup(candidate, prompt string) (T, error)
}

// CleanerFunc adapts a function to Cleaner.
type CleanerFunc[T any] func(candidate, prompt string) (T, error)

func (f CleanerFunc[T]) Cleanup(candidate, prompt string) (T, error) {
	return f(candidate, prompt)
}

// Policy bounds a run and names the value returned when every attempt fails.
type Policy[T any] struct {
	MaxAttempts int
	FailSafe    T
}

// Validate reports a policy that would be clamped at run time.
func (p Policy[T]) Validate() error {
	if p.MaxAttempts < 1 {
		return services.Wrap(services.ErrValidation, "generate", "policy", fmt.Sprintf("max attempts must be >= 1, got %d", p.MaxAttempts), nil)
	}
	return nil
}

func (p Policy[T]) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Job describes one generation request.
type Job struct {
	Prompt             string
	ExampleOutput      any
	SpecialInstruction string
	Tier               llm.Tier
	// Params is only used by RunRaw. Nil means llm.DefaultParams.
	Params *llm.Params
	// Verbose promotes per-attempt diagnostics from debug to info.
	Verbose bool
}

// Stage names the step an attempt stopped at.
type Stage string

const (
	StageTransport Stage = "transport"
	StageExtract   Stage = "extract"
	StageValidate  Stage = "validate"
	StageCleanup   Stage = "cleanup"
	StageAccepted  Stage = "accepted"
)

// Attempt records one pass through the loop.
type Attempt struct {
	Index     int
	Stage     Stage
	Candidate string
	Err       error
}

// Outcome is the result of a run. When Succeeded is false, Value is the
// policy's fail-safe.
type Outcome[T any] struct {
	Value     T
	Succeeded bool
	Attempts  []Attempt
	RequestID string
	Prompt    string
}
