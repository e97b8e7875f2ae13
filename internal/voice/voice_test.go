package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"subalign/internal/media/decoder"
	"subalign/internal/progress"
	"subalign/internal/timing"
)

func TestExtractSegmentsAllSilence(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100} {
		flags := make([]bool, n)
		if got := ExtractSegments(flags, 10, 0); len(got) != 0 {
			t.Fatalf("n=%d: expected no segments, got %v", n, got)
		}
	}
}

func TestExtractSegmentsAllSpeech(t *testing.T) {
	for _, n := range []int{1, 5, 64} {
		flags := make([]bool, n)
		for i := range flags {
			flags[i] = true
		}
		got := ExtractSegments(flags, 1, 3)
		want := []timing.Interval{{Start: 0, End: int64(n)}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("n=%d: got %v want %v", n, got, want)
		}
	}
}

func TestExtractSegmentsGapMerge(t *testing.T) {
	flags := []bool{true, true, false, false, true, true, false}
	tests := []struct {
		name string
		gap  int
		want []timing.Interval
	}{
		{name: "no merge", gap: 0, want: []timing.Interval{{Start: 0, End: 20}, {Start: 40, End: 60}}},
		{name: "gap shorter than silence", gap: 1, want: []timing.Interval{{Start: 0, End: 20}, {Start: 40, End: 60}}},
		{name: "merged", gap: 2, want: []timing.Interval{{Start: 0, End: 60}}},
		{name: "wide merge", gap: 10, want: []timing.Interval{{Start: 0, End: 60}}},
		{name: "negative gap", gap: -3, want: []timing.Interval{{Start: 0, End: 20}, {Start: 40, End: 60}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSegments(flags, 10, tt.gap)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestExtractorTrailingSegmentClosedOnFinish(t *testing.T) {
	e := NewExtractor(32, 0)
	for _, f := range []bool{false, false, true, true, true} {
		e.Push(f)
	}
	if e.Chunks() != 5 {
		t.Fatalf("expected 5 chunks, got %d", e.Chunks())
	}
	got := e.Finish()
	want := []timing.Interval{{Start: 64, End: 160}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFilterMinDuration(t *testing.T) {
	in := []timing.Interval{{Start: 0, End: 100}, {Start: 200, End: 700}, {Start: 800, End: 1299}}
	got := FilterMinDuration(in, 500)
	want := []timing.Interval{{Start: 200, End: 700}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := FilterMinDuration(in, 0); len(got) != 3 {
		t.Fatalf("expected all segments kept, got %v", got)
	}
}

// levelModel reports the first sample of each window, scaled to [0,1].
type levelModel struct {
	width   int
	windows [][]int16
	failAt  int
	closed  bool
}

func (m *levelModel) Predict(window []int16) (float32, error) {
	if len(window) != m.width {
		return 0, errors.New("wrong window size")
	}
	m.windows = append(m.windows, append([]int16(nil), window...))
	if m.failAt > 0 && len(m.windows) == m.failAt {
		return 0, errors.New("inference failed")
	}
	return float32(window[0]) / 100, nil
}

func (m *levelModel) Width() int { return m.width }

func (m *levelModel) Close() error {
	m.closed = true
	return nil
}

func TestReceiverThresholdsWindows(t *testing.T) {
	model := &levelModel{width: 512}
	r := NewReceiver(model, 0)
	window := func(level int16) []int16 {
		w := make([]int16, 512)
		w[0] = level
		return w
	}
	// 0.9, 0.5 (not above threshold), 0.7, 0.1
	var samples []int16
	for _, level := range []int16{90, 50, 70, 10} {
		samples = append(samples, window(level)...)
	}
	for len(samples) > 0 {
		n := min(decoder.ChunkSamples, len(samples))
		if err := r.PushSamples(samples[:n]); err != nil {
			t.Fatalf("PushSamples: %v", err)
		}
		samples = samples[n:]
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if r.Windows() != 4 {
		t.Fatalf("expected 4 windows, got %d", r.Windows())
	}
	want := []timing.Interval{{Start: 0, End: 32}, {Start: 64, End: 96}}
	if got := r.Segments(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestReceiverPadsLeftoverOnFinish(t *testing.T) {
	model := &levelModel{width: 512}
	r := NewReceiver(model, 0)
	partial := make([]int16, 100)
	partial[0] = 80
	partial[99] = 7
	if err := r.PushSamples(partial); err != nil {
		t.Fatalf("PushSamples: %v", err)
	}
	if len(model.windows) != 0 {
		t.Fatalf("expected no prediction before finish")
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(model.windows) != 1 {
		t.Fatalf("expected one padded window, got %d", len(model.windows))
	}
	w := model.windows[0]
	if len(w) != 512 || w[99] != 7 || w[100] != 0 || w[511] != 0 {
		t.Fatalf("unexpected padded window")
	}
	want := []timing.Interval{{Start: 0, End: 32}}
	if got := r.Segments(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("second Finish: %v", err)
	}
	if err := r.PushSamples(partial); err == nil {
		t.Fatalf("expected error pushing after finish")
	}
}

func TestWindowMillis(t *testing.T) {
	if got := WindowMillis(512); got != 32 {
		t.Fatalf("expected 32ms, got %d", got)
	}
	if got := WindowMillis(decoder.ChunkSamples); got != 10 {
		t.Fatalf("expected 10ms, got %d", got)
	}
}

type fakeDecoder struct {
	samples []int16
	err     error
}

func (d fakeDecoder) Decode(_ context.Context, _ string, _ int, r decoder.Receiver, obs progress.Observer) error {
	if d.err != nil {
		return d.err
	}
	obs.Init(int64(len(d.samples) / decoder.ChunkSamples))
	for i := 0; i < len(d.samples); i += decoder.ChunkSamples {
		end := min(i+decoder.ChunkSamples, len(d.samples))
		if err := r.PushSamples(d.samples[i:end]); err != nil {
			return err
		}
		obs.Advance()
	}
	obs.Finish()
	return r.Finish()
}

type countingObserver struct {
	total    int64
	advances int
	finished bool
}

func (o *countingObserver) Init(total int64) { o.total = total }
func (o *countingObserver) Advance()         { o.advances++ }
func (o *countingObserver) Finish()          { o.finished = true }

func speechSamples(levels ...int16) []int16 {
	var out []int16
	for _, level := range levels {
		w := make([]int16, 512)
		for i := range w {
			w[i] = level
		}
		out = append(out, w...)
	}
	return out
}

func TestAnalyzerReturnsSegments(t *testing.T) {
	model := &levelModel{width: 512}
	obs := &countingObserver{}
	a := Analyzer{
		Decoder:       fakeDecoder{samples: speechSamples(0, 90, 90, 0, 0, 90)},
		NewModel:      func() (Model, error) { return model, nil },
		Progress:      obs,
		ProgressEvery: 4,
	}
	got, err := a.Analyze(context.Background(), "movie.mkv", 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := []timing.Interval{{Start: 32, End: 96}, {Start: 160, End: 192}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if !model.closed {
		t.Fatalf("expected model to be closed")
	}
	if !obs.finished || obs.advances == 0 {
		t.Fatalf("expected progress updates, got %+v", obs)
	}
}

func TestAnalyzerErrorKinds(t *testing.T) {
	t.Run("model construction", func(t *testing.T) {
		a := Analyzer{
			Decoder:  fakeDecoder{},
			NewModel: func() (Model, error) { return nil, errors.New("bad rate") },
		}
		_, err := a.Analyze(context.Background(), "a.mkv", 0)
		var me *ModelError
		if !errors.As(err, &me) {
			t.Fatalf("expected ModelError, got %v", err)
		}
		if me.Path != "a.mkv" {
			t.Fatalf("unexpected path %q", me.Path)
		}
		var de *DecodeError
		if errors.As(err, &de) {
			t.Fatalf("model failure must not be a DecodeError")
		}
	})
	t.Run("prediction", func(t *testing.T) {
		model := &levelModel{width: 512, failAt: 2}
		a := Analyzer{
			Decoder:  fakeDecoder{samples: speechSamples(0, 0, 0)},
			NewModel: func() (Model, error) { return model, nil },
		}
		_, err := a.Analyze(context.Background(), "b.mkv", 0)
		var me *ModelError
		if !errors.As(err, &me) {
			t.Fatalf("expected ModelError, got %v", err)
		}
		if !strings.Contains(err.Error(), "inference failed") {
			t.Fatalf("expected cause in message, got %v", err)
		}
		if !model.closed {
			t.Fatalf("expected model to be closed on failure")
		}
	})
	t.Run("decode", func(t *testing.T) {
		a := Analyzer{
			Decoder:  fakeDecoder{err: errors.New("ffmpeg exited 1")},
			NewModel: func() (Model, error) { return &levelModel{width: 512}, nil },
		}
		_, err := a.Analyze(context.Background(), "c.mkv", 1)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected DecodeError, got %v", err)
		}
		if de.Path != "c.mkv" || !strings.Contains(err.Error(), "c.mkv") {
			t.Fatalf("expected path in error, got %v", err)
		}
	})
}

func TestSileroFactoryValidatesInputs(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "silero_vad.onnx")
	if err := os.WriteFile(model, []byte("onnx"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if _, err := SileroFactory(model, 44100)(); err == nil || !strings.Contains(err.Error(), "unsupported sample rate") {
		t.Fatalf("expected sample rate error, got %v", err)
	}
	if _, err := SileroFactory(filepath.Join(dir, "missing.onnx"), 16000)(); err == nil {
		t.Fatalf("expected missing model error")
	}
}

func TestSileroWidth(t *testing.T) {
	if w, err := sileroWidth(16000); err != nil || w != 512 {
		t.Fatalf("16k: got %d, %v", w, err)
	}
	if w, err := sileroWidth(8000); err != nil || w != 256 {
		t.Fatalf("8k: got %d, %v", w, err)
	}
}
