// Package audio decodes uploaded audio containers into mono PCM buffers.
// WAV files are decoded natively; everything else goes through ffmpeg.
package audio

// Buffer holds decoded mono PCM samples normalized to [-1, 1].
// It is immutable for the duration of an analysis call.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// downmix averages interleaved multi-channel samples into a mono signal.
// Mono input is returned unchanged.
func downmix(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
