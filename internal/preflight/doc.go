// Package preflight runs the cheap checks that should fail a run before any
// audio is decoded: external tools, the voice model, and write access to
// the output location. The doctor command prints the same results.
package preflight
