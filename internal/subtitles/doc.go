// Package subtitles reads and rewrites subtitle files without converting
// between formats.
//
// Open detects the format from the extension (falling back to the content),
// decodes the text using an encoding hint, and exposes the timed entries.
// UpdateEntries replaces the timings in place and Bytes serializes the file
// in its original format, keeping text and styling untouched. Supported
// formats are SubRip, SSA/ASS, MicroDVD and the VobSub index file.
package subtitles
