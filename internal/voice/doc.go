// Package voice turns the audio track of a media file into a timeline of
// speech segments.
//
// A decoder pushes samples into a Receiver, which slices them into windows
// of the model's width, asks the Model for a speech probability per window
// and feeds the thresholded flag into an Extractor. The Extractor is a
// two-state machine that folds the flag stream into disjoint, sorted
// segments, optionally bridging short silent gaps.
package voice
