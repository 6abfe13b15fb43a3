package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-audio/wav"
)

// ErrUndecodable is wrapped by every decode failure. Decoding is the one
// fatal step of the analysis pipeline.
var ErrUndecodable = errors.New("undecodable audio")

// Decoder turns raw container bytes (WAV, MP3, ...) into a mono Buffer.
type Decoder struct {
	ffmpegPath string
	logger     *slog.Logger
}

func NewDecoder(ffmpegPath string, logger *slog.Logger) *Decoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Decoder{ffmpegPath: ffmpegPath, logger: logger}
}

// Decode parses the audio bytes into a mono PCM buffer. WAV data is decoded
// in-process; other containers are piped through ffmpeg.
func (d *Decoder) Decode(ctx context.Context, data []byte, filename string) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUndecodable)
	}

	if isWAV(data) {
		buf, err := decodeWAV(data)
		if err == nil {
			return buf, nil
		}
		if d.logger != nil {
			d.logger.Warn("native WAV decode failed, falling back to ffmpeg",
				"filename", filename, "error", err)
		}
	}

	return d.decodeFFmpeg(ctx, data, filename)
}

// isWAV checks the RIFF/WAVE magic.
func isWAV(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE"))
}

func decodeWAV(data []byte) (*Buffer, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", ErrUndecodable)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: read PCM: %v", ErrUndecodable, err)
	}
	if pcm.Format == nil || pcm.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrUndecodable)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float64(v) / scale
	}

	return &Buffer{
		Samples:    downmix(samples, pcm.Format.NumChannels),
		SampleRate: pcm.Format.SampleRate,
	}, nil
}
