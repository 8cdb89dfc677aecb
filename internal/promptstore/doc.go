// Package promptstore resolves prompt template names to template text.
//
// Two backends implement Store. Dir reads "<name>.txt" from a directory on
// every call, so edits on disk are visible to the next render. SQLite keeps a
// named template library in a modernc SQLite database; Import copies a
// directory of templates into it while holding an exclusive file lock so two
// concurrent imports cannot interleave.
//
// Names are case-folded before lookup in the SQLite library so "Summarize" and
// "summarize" address the same row.
package promptstore
