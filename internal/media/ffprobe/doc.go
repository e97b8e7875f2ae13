// Package ffprobe wraps ffprobe's JSON output.
//
// The decoder uses it to learn how long an audio track runs so progress can
// report a total before decoding starts, and to fail early when a media
// reference has no audio at all.
package ffprobe
