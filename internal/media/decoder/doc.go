// Package decoder turns the audio track of a media file into 16 kHz mono
// signed 16-bit samples and pushes them, in fixed-size chunks, into a
// Receiver.
//
// FFmpeg handles any container ffmpeg can read. WAV reads 16 kHz PCM wave
// files directly so short references and tests need no external tools.
// ForPath picks between the two.
package decoder
