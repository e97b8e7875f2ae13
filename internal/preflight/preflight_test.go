package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"subalign/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		ok   bool
	}{
		{"writable", dir, true},
		{"missing", filepath.Join(dir, "nope"), false},
		{"file", file, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckDirectoryAccess("test", tt.path, false)
			if result.Passed != tt.ok {
				t.Fatalf("Passed = %v, want %v (%s)", result.Passed, tt.ok, result.Detail)
			}
			if result.Detail == "" {
				t.Fatal("expected non-empty detail")
			}
		})
	}
}

func TestCheckOutputPathUsesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	if result := CheckOutputPath(filepath.Join(dir, "out.srt")); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckOutputPath(filepath.Join(dir, "missing", "out.srt")); result.Passed {
		t.Fatal("expected failure for missing parent")
	}
}

func TestRunAllReportsMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.VAD.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")
	cfg.VAD.FFmpegBinary = "clearly-not-present-ffmpeg"
	cfg.VAD.FFprobeBinary = "clearly-not-present-ffprobe"
	cfg.Cache.Dir = t.TempDir()

	results := RunAll(&cfg)
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if byName["Silero VAD model"].Passed {
		t.Fatal("expected model check to fail")
	}
	if !byName["Cache directory"].Passed {
		t.Fatalf("expected cache directory to pass: %s", byName["Cache directory"].Detail)
	}
	if !byName["FFprobe"].Optional {
		t.Fatal("ffprobe should be optional")
	}

	failed := Failed(results)
	names := map[string]bool{}
	for _, r := range failed {
		names[r.Name] = true
	}
	if !names["FFmpeg"] || !names["Silero VAD model"] || names["FFprobe"] {
		t.Fatalf("unexpected failed set %v", names)
	}
}
