package decoder

import (
	"context"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"subalign/internal/progress"
)

const wavFormatPCM = 1

// WAV decodes 16 kHz 16-bit PCM wave files in process. Multi-channel files
// are downmixed by averaging.
type WAV struct{}

// IsNativeWAV reports whether path is a wave file WAV can decode without
// resampling.
func IsNativeWAV(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return false
	}
	return d.SampleRate == SampleRate && d.BitDepth == 16 && d.WavAudioFormat == wavFormatPCM && d.NumChans > 0
}

func (WAV) Decode(ctx context.Context, path string, track int, r Receiver, obs progress.Observer) error {
	obs = progress.OrNop(obs)
	if track != 0 {
		return fmt.Errorf("wav files have a single audio track, got index %d", track)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return fmt.Errorf("not a valid wav file")
	}
	if d.SampleRate != SampleRate || d.BitDepth != 16 || d.WavAudioFormat != wavFormatPCM {
		return fmt.Errorf("unsupported wav format: %d Hz, %d-bit, format %d", d.SampleRate, d.BitDepth, d.WavAudioFormat)
	}
	if err := d.FwdToPCM(); err != nil {
		return fmt.Errorf("seek pcm data: %w", err)
	}
	channels := int(d.NumChans)
	frames := int64(d.PCMSize) / int64(2*channels)

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: SampleRate},
		Data:   make([]int, ChunkSamples*channels),
	}
	samples := make([]int16, ChunkSamples)

	obs.Init(chunkTotal(frames))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		buf.Data = buf.Data[:cap(buf.Data)]
		n, err := d.PCMBuffer(buf)
		if err != nil {
			return fmt.Errorf("read pcm: %w", err)
		}
		count := n / channels
		if count == 0 {
			break
		}
		for i := 0; i < count; i++ {
			sum := 0
			for c := 0; c < channels; c++ {
				sum += buf.Data[i*channels+c]
			}
			samples[i] = int16(sum / channels)
		}
		if err := r.PushSamples(samples[:count]); err != nil {
			return err
		}
		obs.Advance()
	}
	obs.Finish()
	return r.Finish()
}
