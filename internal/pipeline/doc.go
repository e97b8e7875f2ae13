// Package pipeline runs one synchronization from input paths to the written
// output file.
//
// Runner.Run loads both timelines, optionally corrects a framerate
// mismatch, aligns the input to the reference, reports the resulting shift
// groups, keeps timestamps non-negative, and writes the corrected file in a
// single atomic step. Every dependency with side effects (voice analysis,
// alignment, caching, progress) is injected so tests can swap in fakes.
package pipeline
