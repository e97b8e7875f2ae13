package decoder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"subalign/internal/logging"
	"subalign/internal/media/ffprobe"
	"subalign/internal/progress"
)

// FFmpeg decodes through an ffmpeg subprocess writing raw s16le mono PCM to
// a pipe. When ProbeBinary is set, ffprobe supplies the track duration for
// progress and rejects files without the requested audio track.
type FFmpeg struct {
	Binary      string
	ProbeBinary string
	Logger      *slog.Logger
}

// NewFFmpeg returns an ffmpeg decoder using the given binaries.
func NewFFmpeg(binary, probeBinary string, logger *slog.Logger) *FFmpeg {
	return &FFmpeg{
		Binary:      binary,
		ProbeBinary: probeBinary,
		Logger:      logging.NewComponentLogger(logger, "decoder"),
	}
}

func (f *FFmpeg) logger() *slog.Logger {
	if f.Logger == nil {
		return logging.NewNop()
	}
	return f.Logger
}

func (f *FFmpeg) Decode(ctx context.Context, path string, track int, r Receiver, obs progress.Observer) error {
	obs = progress.OrNop(obs)
	if track < 0 {
		return fmt.Errorf("audio track index %d is negative", track)
	}
	total, err := f.expectedChunks(ctx, path, track)
	if err != nil {
		return err
	}

	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-i", path,
		"-map", "0:a:" + strconv.Itoa(track),
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-f", "s16le",
		"-",
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmd := exec.CommandContext(runCtx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}
	f.logger().Debug("ffmpeg started",
		logging.Path(path),
		logging.Int("track", track),
		logging.Int64("expected_chunks", total),
	)

	obs.Init(total)
	pushErr := pumpPCM(bufio.NewReaderSize(stdout, 64*1024), r, obs)
	if pushErr != nil {
		cancel()
	}
	waitErr := cmd.Wait()
	if pushErr != nil {
		return pushErr
	}
	if waitErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg: %w", waitErr)
		}
		return fmt.Errorf("ffmpeg: %w: %s", waitErr, msg)
	}
	obs.Finish()
	return r.Finish()
}

// expectedChunks returns the chunk count implied by the ffprobe duration, or
// 0 when ffprobe is unavailable or silent about it.
func (f *FFmpeg) expectedChunks(ctx context.Context, path string, track int) (int64, error) {
	if strings.TrimSpace(f.ProbeBinary) == "" {
		return 0, nil
	}
	if _, err := exec.LookPath(f.ProbeBinary); err != nil {
		f.logger().Debug("ffprobe unavailable; progress total unknown", logging.String("binary", f.ProbeBinary))
		return 0, nil
	}
	info, err := ffprobe.Inspect(ctx, f.ProbeBinary, path)
	if err != nil {
		return 0, err
	}
	if _, ok := info.AudioStream(track); !ok {
		return 0, fmt.Errorf("no audio track %d (file has %d)", track, len(info.AudioStreams()))
	}
	seconds := info.AudioDurationSeconds(track)
	return chunkTotal(int64(math.Ceil(seconds * SampleRate))), nil
}

// pumpPCM reads little-endian int16 samples and pushes them in
// ChunkSamples-sized chunks; the final chunk may be shorter.
func pumpPCM(src io.Reader, r Receiver, obs progress.Observer) error {
	raw := make([]byte, ChunkSamples*2)
	samples := make([]int16, ChunkSamples)
	for {
		n, err := io.ReadFull(src, raw)
		if n > 0 {
			count := n / 2
			for i := 0; i < count; i++ {
				samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
			}
			if count > 0 {
				if pushErr := r.PushSamples(samples[:count]); pushErr != nil {
					return pushErr
				}
				obs.Advance()
			}
		}
		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		default:
			return fmt.Errorf("read pcm: %w", err)
		}
	}
}
