// Package logging assembles the structured slog loggers used by subalign.
//
// It owns the console and JSON handlers, level and output plumbing, the
// run_id tagging applied to every record of one synchronization run, and a
// small set of attribute helpers and field names so packages emit log lines
// with the same shape. NewNop provides a discard logger for tests and for
// wiring code that runs without configuration.
package logging
