package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"promptkit/internal/logging"
	"promptkit/internal/services"
	"promptkit/internal/services/llm"
)

// Engine runs generation jobs against a Completer. It holds no per-run state
// and is safe for concurrent use.
type Engine struct {
	completer Completer
	logger    *slog.Logger
	newID     func() string
}

// Option customizes the engine.
type Option func(*Engine)

// WithLogger attaches a logger for attempt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator overrides how run correlation IDs are produced.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// NewEngine constructs an engine.
func NewEngine(completer Completer, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		logger:    logging.NewNop(),
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "generate")
	return e
}

// Run frames job.Prompt for job.Tier and loops until a candidate passes v and
// c, or the policy's attempts are spent. A nil validator rejects every
// candidate, so pass AcceptAll to skip validation. A nil cleaner returns the
// candidate itself when T is string.
func Run[T any](ctx context.Context, e *Engine, job Job, policy Policy[T], v Validator, c Cleaner[T]) Outcome[T] {
	framed := FramePrompt(job.Prompt, job.ExampleOutput, job.SpecialInstruction, job.Tier)
	fetch := func(ctx context.Context) (string, Stage, error) {
		raw, err := e.completer.Complete(ctx, llm.Request{Prompt: framed}, job.Tier)
		if err != nil {
			return "", StageTransport, err
		}
		candidate, err := llm.ExtractOutput(raw)
		if err != nil {
			return raw, StageExtract, err
		}
		return candidate, "", nil
	}
	return loop(ctx, e, job, framed, policy, v, c, fetch)
}

// RunStandard runs job on the standard tier.
func RunStandard[T any](ctx context.Context, e *Engine, job Job, policy Policy[T], v Validator, c Cleaner[T]) Outcome[T] {
	job.Tier = llm.TierStandard
	return Run(ctx, e, job, policy, v, c)
}

// RunAdvanced runs job on the advanced tier.
func RunAdvanced[T any](ctx context.Context, e *Engine, job Job, policy Policy[T], v Validator, c Cleaner[T]) Outcome[T] {
	job.Tier = llm.TierAdvanced
	return Run(ctx, e, job, policy, v, c)
}

// RunRaw sends job.Prompt unframed with job.Params and validates the raw
// response text.
func RunRaw[T any](ctx context.Context, e *Engine, job Job, policy Policy[T], v Validator, c Cleaner[T]) Outcome[T] {
	params := llm.DefaultParams()
	if job.Params != nil {
		params = *job.Params
	}
	fetch := func(ctx context.Context) (string, Stage, error) {
		raw, err := e.completer.Complete(ctx, llm.Request{Prompt: job.Prompt, Params: &params}, job.Tier)
		if err != nil {
			return "", StageTransport, err
		}
		return raw, "", nil
	}
	return loop(ctx, e, job, job.Prompt, policy, v, c, fetch)
}

type fetchFunc func(ctx context.Context) (candidate string, failed Stage, err error)

func loop[T any](ctx context.Context, e *Engine, job Job, prompt string, policy Policy[T], v Validator, c Cleaner[T], fetch fetchFunc) Outcome[T] {
	requestID := e.newID()
	ctx = services.WithRequestID(ctx, requestID)
	ctx = services.WithTier(ctx, job.Tier.String())

	out := Outcome[T]{Value: policy.FailSafe, RequestID: requestID, Prompt: prompt}
	attempts := policy.attempts()
	logger := logging.WithContext(ctx, e.logger)
	detail := logger.Debug
	if job.Verbose {
		detail = logger.Info
	}
	detail("generation started", logging.Int("max_attempts", attempts), logging.String("prompt", prompt))

	for i := 1; i <= attempts; i++ {
		attemptCtx := services.WithAttempt(ctx, i)
		if err := ctx.Err(); err != nil {
			out.Attempts = append(out.Attempts, Attempt{Index: i, Stage: StageTransport, Err: err})
			break
		}

		candidate, stage, err := fetch(attemptCtx)
		if err != nil {
			out.Attempts = append(out.Attempts, Attempt{Index: i, Stage: stage, Candidate: candidate, Err: err})
			detail("attempt failed",
				logging.Int(logging.FieldAttempt, i),
				logging.String("stage", string(stage)),
				logging.String("error_kind", services.Classify(err)),
				logging.Error(err),
			)
			continue
		}

		ok, err := safeValidate(v, candidate, prompt)
		if !ok || err != nil {
			if err == nil {
				err = services.Wrap(services.ErrValidation, "generate", "validate", "candidate rejected", nil)
			}
			out.Attempts = append(out.Attempts, Attempt{Index: i, Stage: StageValidate, Candidate: candidate, Err: err})
			detail("candidate rejected",
				logging.Int(logging.FieldAttempt, i),
				logging.String("candidate", candidate),
				logging.Error(err),
			)
			continue
		}

		value, err := safeCleanup(c, candidate, prompt)
		if err != nil {
			out.Attempts = append(out.Attempts, Attempt{Index: i, Stage: StageCleanup, Candidate: candidate, Err: err})
			if errors.Is(err, errNoCleaner) {
				logging.ErrorWithContext(logger, "cleanup failed", "generate_no_cleaner",
					logging.Int(logging.FieldAttempt, i),
					logging.String(logging.FieldErrorHint, "pass a Cleaner when the result type is not string"),
				)
				continue
			}
			detail("cleanup failed",
				logging.Int(logging.FieldAttempt, i),
				logging.String("candidate", candidate),
				logging.Error(err),
			)
			continue
		}

		out.Attempts = append(out.Attempts, Attempt{Index: i, Stage: StageAccepted, Candidate: candidate})
		out.Value = value
		out.Succeeded = true
		logger.Debug("generation succeeded", logging.Int(logging.FieldAttempt, i))
		return out
	}

	logging.WarnWithContext(logger, "fail-safe returned", "generation_exhausted",
		logging.Int("attempts", len(out.Attempts)),
		logging.String(logging.FieldErrorHint, "loosen the validator or raise max attempts"),
	)
	return out
}

func safeValidate(v Validator, candidate, prompt string) (ok bool, err error) {
	if v == nil {
		return false, services.Wrap(services.ErrValidation, "generate", "validate", "no validator configured", nil)
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = services.Wrap(services.ErrValidation, "generate", "validate", fmt.Sprintf("validator panicked: %v", r), nil)
		}
	}()
	return v.Validate(candidate, prompt)
}

var errNoCleaner = errors.New("no cleaner for non-string result type")

func safeCleanup[T any](c Cleaner[T], candidate, prompt string) (value T, err error) {
	if c == nil {
		if v, ok := any(candidate).(T); ok {
			return v, nil
		}
		return value, errNoCleaner
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = services.Wrap(services.ErrValidation, "generate", "cleanup", fmt.Sprintf("cleaner panicked: %v", r), nil)
		}
	}()
	return c.Cleanup(candidate, prompt)
}
