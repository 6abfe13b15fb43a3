package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
)

// Target format for ffmpeg decode output. 22.05 kHz mono is plenty for
// energy windows and coarse tempo estimation.
const (
	ffmpegSampleRate = 22050
	bytesPerSample   = 2 // s16le
)

// decodeFFmpeg shells out to ffmpeg, feeding the container on stdin and
// reading raw signed 16-bit little-endian mono PCM from stdout.
func (d *Decoder) decodeFFmpeg(ctx context.Context, data []byte, filename string) (*Buffer, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", ffmpegSampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg decode of %s: %v (%s)",
			ErrUndecodable, filename, err, truncate(stderr.String(), 200))
	}

	raw := stdout.Bytes()
	if len(raw) < bytesPerSample {
		return nil, fmt.Errorf("%w: ffmpeg produced no samples for %s", ErrUndecodable, filename)
	}

	n := len(raw) / bytesPerSample
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:]))
		samples[i] = float64(v) / math.MaxInt16
	}

	if d.logger != nil {
		d.logger.Debug("ffmpeg decode complete",
			"filename", filename,
			"samples", n,
			"sample_rate", ffmpegSampleRate,
		)
	}

	return &Buffer{Samples: samples, SampleRate: ffmpegSampleRate}, nil
}

// CheckFFmpeg reports whether the configured ffmpeg binary is runnable.
// Missing ffmpeg only disables non-WAV uploads, so callers log and continue.
func (d *Decoder) CheckFFmpeg(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, d.ffmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not available at %q: %w", d.ffmpegPath, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
