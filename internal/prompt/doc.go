// Package prompt fills positional prompt templates.
//
// Templates carry placeholders of the form !<INPUT 0>!, !<INPUT 1>!, ... and
// may open with a documentation header closed by
// <commentblockmarker>###</commentblockmarker>. Render substitutes every
// placeholder in a single pass, so an input that itself contains placeholder
// text is never expanded again, and strips the header.
//
// Render is lenient: unknown placeholders stay verbatim and surplus inputs are
// ignored. RenderStrict performs the same substitution but reports both
// mismatches so callers can catch drifting templates in tests.
package prompt
