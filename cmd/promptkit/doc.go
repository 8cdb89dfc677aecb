// Package main hosts the promptkit CLI entrypoint and command graph.
//
// The Cobra-based command tree renders prompt templates, sends one-off
// completions, runs the validated generation loop, computes embeddings,
// manages the prompt library and checks the local setup. It centralizes
// configuration resolution, client construction and structured logging setup
// so subcommands only parse flags and format output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
