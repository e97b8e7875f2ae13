// Package progress defines the advisory observer that long-running stages
// report to.
//
// Observers never influence control flow: stages call Init once with the
// expected step count (0 when unknown), Advance per step, and Finish when the
// stage completes. Prescale thins the Advance calls to a caller-chosen
// cadence; Log and Bar render the updates to the structured log or a
// terminal progress bar.
package progress
