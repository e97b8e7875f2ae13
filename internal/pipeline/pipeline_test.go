package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"subalign/internal/alignment"
	"subalign/internal/pipeline"
	"subalign/internal/progress"
	"subalign/internal/subtitles"
	"subalign/internal/testsupport"
	"subalign/internal/timing"
	"subalign/internal/vadcache"
	"subalign/internal/voice"
)

type fixture struct {
	dir string
	ref string
	in  string
	out string
}

func newFixture(t *testing.T, ref, in []testsupport.Cue) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir: dir,
		ref: filepath.Join(dir, "reference.srt"),
		in:  filepath.Join(dir, "incorrect.srt"),
		out: filepath.Join(dir, "corrected.srt"),
	}
	testsupport.WriteSRT(t, f.ref, ref...)
	testsupport.WriteSRT(t, f.in, in...)
	return f
}

func baseOptions(t *testing.T, f fixture, opts ...testsupport.ConfigOption) pipeline.Options {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	return pipeline.OptionsFromConfig(cfg, f.ref, f.in, f.out)
}

func readIntervals(t *testing.T, path string) []timing.Interval {
	t.Helper()
	file, err := subtitles.Open(path, subtitles.Hints{})
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	return file.Intervals()
}

func TestRunNoSplitRemovesUniformShift(t *testing.T) {
	f := newFixture(t,
		[]testsupport.Cue{{Start: 0, End: 1000}, {Start: 5000, End: 6000}},
		[]testsupport.Cue{{Start: 200, End: 1200}, {Start: 5200, End: 6200}},
	)
	opts := baseOptions(t, f, testsupport.WithNoSplit())

	runner := &pipeline.Runner{}
	res, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := readIntervals(t, f.out)
	want := []timing.Interval{{Start: 0, End: 1000}, {Start: 5000, End: 6000}}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), got)
	}
	for i := range want {
		if abs(got[i].Start-want[i].Start) > 1 || abs(got[i].End-want[i].End) > 1 {
			t.Fatalf("line %d: got %v want %v", i, got[i], want[i])
		}
	}
	if !res.Framerate.Identity() {
		t.Fatalf("expected identity framerate, got %+v", res.Framerate)
	}
	if len(res.Groups) != 1 || res.Groups[0].DeltaMillis != -200 || res.Groups[0].Lines != 2 {
		t.Fatalf("unexpected groups %+v", res.Groups)
	}
	if res.HadNegative || res.Lines != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRunSplitModeWithCoarseInterval(t *testing.T) {
	f := newFixture(t,
		[]testsupport.Cue{{Start: 1000, End: 2000}, {Start: 4000, End: 5500}, {Start: 9000, End: 9800}},
		[]testsupport.Cue{{Start: 1500, End: 2500}, {Start: 4500, End: 6000}, {Start: 9500, End: 10300}},
	)
	opts := baseOptions(t, f)
	opts.IntervalMS = 10

	res, err := (&pipeline.Runner{}).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(res.Deltas, []int64{-500, -500, -500}) {
		t.Fatalf("unexpected deltas %v", res.Deltas)
	}
	want := []timing.Interval{{Start: 1000, End: 2000}, {Start: 4000, End: 5500}, {Start: 9000, End: 9800}}
	if got := readIntervals(t, f.out); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

// fixedEngine returns the same delta for every line.
type fixedEngine struct {
	alignment.Default
	delta alignment.Delta
}

func (e fixedEngine) AlignNoSplit(_, _ []alignment.Span, _ alignment.ScoringFunc, _ progress.Observer) (alignment.Delta, float64) {
	return e.delta, 1
}

func (e fixedEngine) Align(_, in []alignment.Span, _ alignment.Options, _ progress.Observer) []alignment.Delta {
	out := make([]alignment.Delta, len(in))
	for i := range out {
		out[i] = e.delta
	}
	return out
}

func TestRunShiftsNegativeTimelineForward(t *testing.T) {
	f := newFixture(t,
		[]testsupport.Cue{{Start: 0, End: 150}},
		[]testsupport.Cue{{Start: 100, End: 250}, {Start: 1000, End: 1200}},
	)
	opts := baseOptions(t, f, testsupport.WithNoSplit())
	opts.GuessFramerate = false

	runner := &pipeline.Runner{Engine: fixedEngine{delta: -150}}
	res, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []timing.Interval{{Start: 0, End: 150}, {Start: 900, End: 1100}}
	if got := readIntervals(t, f.out); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if !res.HadNegative || res.ShiftedBy != 50 {
		t.Fatalf("expected 50ms forward shift, got %+v", res)
	}
}

func TestRunAllowNegativeKeepsTimings(t *testing.T) {
	f := newFixture(t,
		[]testsupport.Cue{{Start: 0, End: 150}},
		[]testsupport.Cue{{Start: 100, End: 250}},
	)
	opts := baseOptions(t, f, testsupport.WithNoSplit())
	opts.GuessFramerate = false
	opts.AllowNegative = true

	var logs bytes.Buffer
	runner := &pipeline.Runner{
		Engine: fixedEngine{delta: -150},
		Logger: slog.New(slog.NewJSONHandler(&logs, nil)),
	}
	res, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.HadNegative || res.ShiftedBy != 0 {
		t.Fatalf("expected negative timings kept, got %+v", res)
	}
	data, err := os.ReadFile(f.out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "-00:00:00,050 --> 00:00:00,100") {
		t.Fatalf("expected negative start in output:\n%s", data)
	}
	if !strings.Contains(logs.String(), `"event_type":"negative_timestamps"`) {
		t.Fatalf("expected negative timestamp warning, got %s", logs.String())
	}
}

func TestRunRejectsFormatMismatch(t *testing.T) {
	f := newFixture(t, []testsupport.Cue{{Start: 0, End: 100}}, []testsupport.Cue{{Start: 0, End: 100}})
	f.out = filepath.Join(f.dir, "corrected.ass")
	opts := baseOptions(t, f)

	_, err := (&pipeline.Runner{}).Run(context.Background(), opts)
	var mismatch *pipeline.FormatMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected format mismatch, got %v", err)
	}
	if mismatch.Format != subtitles.FormatSRT {
		t.Fatalf("unexpected format %v", mismatch.Format)
	}
	if _, statErr := os.Stat(f.out); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, stat err %v", statErr)
	}
}

type fakeVoice struct {
	segments []timing.Interval
	err      error
	calls    int
}

func (v *fakeVoice) Analyze(_ context.Context, _ string, _ int) ([]timing.Interval, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.segments, nil
}

func TestRunMediaReferenceUsesCache(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "movie.mkv")
	testsupport.WriteText(t, media, "fake media")
	in := filepath.Join(dir, "incorrect.srt")
	testsupport.WriteSRT(t, in,
		testsupport.Cue{Start: 300, End: 1300},
		testsupport.Cue{Start: 5300, End: 6300},
	)
	out := filepath.Join(dir, "corrected.srt")

	cfg := testsupport.NewConfig(t, testsupport.WithNoSplit())
	store, err := vadcache.Open(context.Background(), cfg.Cache.Dir)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	analyzer := &fakeVoice{segments: []timing.Interval{
		{Start: 0, End: 1000},
		{Start: 2000, End: 2100},
		{Start: 5000, End: 6000},
	}}
	runner := &pipeline.Runner{
		Voice:       analyzer,
		Cache:       store,
		CacheParams: pipeline.CacheParams(cfg),
		MinSpanMS:   500,
	}
	opts := pipeline.OptionsFromConfig(cfg, media, in, out)
	res, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ReferenceLines != 2 {
		t.Fatalf("expected short segment to be dropped, got %d reference lines", res.ReferenceLines)
	}
	if !reflect.DeepEqual(res.Deltas, []int64{-300, -300}) {
		t.Fatalf("unexpected deltas %v", res.Deltas)
	}

	analyzer.err = errors.New("must not analyze again")
	if _, err := runner.Run(context.Background(), opts); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected one analysis, got %d", analyzer.calls)
	}
}

func TestRunOpensInputBeforeAnalyzingReference(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "movie.mkv")
	testsupport.WriteText(t, media, "fake media")
	analyzer := &fakeVoice{}
	runner := &pipeline.Runner{Voice: analyzer}
	cfg := testsupport.NewConfig(t)
	opts := pipeline.OptionsFromConfig(cfg, media, filepath.Join(dir, "missing.srt"), filepath.Join(dir, "out.srt"))

	_, err := runner.Run(context.Background(), opts)
	var se *subtitles.Error
	if !errors.As(err, &se) || se.Kind != subtitles.KindRead {
		t.Fatalf("expected subtitle read error, got %v", err)
	}
	if analyzer.calls != 0 {
		t.Fatalf("reference must not be analyzed when the input is missing")
	}
}

func TestRunPropagatesVoiceErrors(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "movie.mkv")
	in := filepath.Join(dir, "in.srt")
	out := filepath.Join(dir, "out.srt")
	testsupport.WriteText(t, media, "fake media")
	testsupport.WriteSRT(t, in, testsupport.Cue{Start: 0, End: 100})

	decodeErr := &voice.DecodeError{Path: media, Err: errors.New("ffmpeg exited 1")}
	runner := &pipeline.Runner{Voice: &fakeVoice{err: decodeErr}}
	cfg := testsupport.NewConfig(t, testsupport.WithCacheDisabled())
	_, err := runner.Run(context.Background(), pipeline.OptionsFromConfig(cfg, media, in, out))
	var de *voice.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output on failure")
	}
}

func TestDumpReference(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "movie.mkv")
	testsupport.WriteText(t, media, "fake media")
	out := filepath.Join(dir, "reference.srt")
	runner := &pipeline.Runner{Voice: &fakeVoice{segments: []timing.Interval{{Start: 0, End: 1000}, {Start: 5000, End: 6000}}}}
	cfg := testsupport.NewConfig(t)

	res, err := runner.Run(context.Background(), pipeline.OptionsFromConfig(cfg, media, pipeline.DumpInput, out))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Lines != 2 {
		t.Fatalf("expected 2 lines, got %d", res.Lines)
	}
	file, err := subtitles.Open(out, subtitles.Hints{})
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	entries := file.Entries()
	if entries[0].Text != "line 0" || entries[1].Text != "line 1" {
		t.Fatalf("unexpected dump entries %+v", entries)
	}
	if entries[1].Interval != (timing.Interval{Start: 5000, End: 6000}) {
		t.Fatalf("unexpected dump timing %+v", entries[1])
	}
}

func TestRunWarnsOnEmptyTimelinesAndIdxOutput(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.srt")
	testsupport.WriteText(t, ref, "")
	in := filepath.Join(dir, "movie.idx")
	testsupport.WriteText(t, in, "# VobSub index file, v7 (do not modify this line!)\ntimestamp: 00:00:01:000, filepos: 000000000\n")
	out := filepath.Join(dir, "fixed.idx")

	var logs bytes.Buffer
	runner := &pipeline.Runner{Logger: slog.New(slog.NewJSONHandler(&logs, nil))}
	cfg := testsupport.NewConfig(t)
	if _, err := runner.Run(context.Background(), pipeline.OptionsFromConfig(cfg, ref, in, out)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, event := range []string{"empty_reference", "limited_output_format"} {
		if !strings.Contains(logs.String(), `"event_type":"`+event+`"`) {
			t.Fatalf("expected %s warning in %s", event, logs.String())
		}
	}
	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "timestamp: 00:00:01:000") {
		t.Fatalf("expected unchanged timing, got %s", data)
	}
}

type stageRecorder struct {
	stages []string
}

func (s *stageRecorder) observer(stage string) progress.Observer {
	s.stages = append(s.stages, stage)
	return progress.Nop{}
}

func TestRunReportsProgressStages(t *testing.T) {
	f := newFixture(t,
		[]testsupport.Cue{{Start: 0, End: 1000}},
		[]testsupport.Cue{{Start: 100, End: 1100}},
	)
	rec := &stageRecorder{}
	runner := &pipeline.Runner{Observers: rec.observer}
	if _, err := runner.Run(context.Background(), baseOptions(t, f)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{pipeline.StageFramerate, pipeline.StageAlign}
	if !reflect.DeepEqual(rec.stages, want) {
		t.Fatalf("got stages %v want %v", rec.stages, want)
	}
}

func TestRunRejectsInvalidInterval(t *testing.T) {
	f := newFixture(t, nil, nil)
	opts := baseOptions(t, f)
	opts.IntervalMS = 0
	if _, err := (&pipeline.Runner{}).Run(context.Background(), opts); !errors.Is(err, timing.ErrInvalidInterval) {
		t.Fatalf("expected invalid interval error, got %v", err)
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
