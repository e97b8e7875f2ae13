package testsupport

import "testing"

func TestSRTRendersCues(t *testing.T) {
	got := SRT(Cue{Start: 0, End: 1000}, Cue{Start: 3723004, End: 3724000, Text: "hi"})
	want := "1\n00:00:00,000 --> 00:00:01,000\nline 1\n\n" +
		"2\n01:02:03,004 --> 01:02:04,000\nhi\n\n"
	if got != want {
		t.Fatalf("unexpected srt:\n%q\nwant\n%q", got, want)
	}
}
