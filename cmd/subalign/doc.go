// Command subalign corrects the timings of a subtitle file against a
// reference subtitle file or the speech in a reference video.
//
//	subalign [flags] <reference> <incorrect|_> <output>
//
// Passing "_" as the incorrect file writes the reference timeline as an SRT
// file for inspection. Subcommands manage the configuration file (config),
// check external tools (doctor), and inspect the voice timeline cache
// (cache).
package main
