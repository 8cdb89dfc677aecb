// Package generate runs the validated generation loop: frame a prompt, ask the
// model, salvage the "output" field from its reply, let the caller validate
// and transform it, and retry a bounded number of times before returning a
// fail-safe value.
//
// Run never returns an error. Every attempt is recorded in the Outcome as an
// Attempt naming the stage that rejected it, so callers and tests can see why
// a run fell back without parsing logs. Validators and cleaners that panic are
// treated as rejections.
//
// RunRaw is the older loop used with legacy parameter sets: the raw response
// is the candidate and no JSON framing or extraction is applied.
package generate
