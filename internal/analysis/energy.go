package analysis

import (
	"math"

	"github.com/reelsmith/reelsmith-agent/internal/audio"
)

const (
	// DefaultWindowMs is the energy profiling window size.
	DefaultWindowMs = 500

	// energyNormDivisor scales RMS amplitude into the [0,1] energy range.
	// Empirical: typical music program material has an RMS around 0.1-0.3
	// of full scale, which lands mid-range after division. The scale is
	// relative loudness, not calibrated level.
	energyNormDivisor = 0.35
)

// EnergyProfile computes the normalized RMS loudness series over the buffer
// in fixed windows of windowMs milliseconds. One point is emitted per
// window, including the final partial window. A silent or empty window
// yields energy 0.
func EnergyProfile(buf *audio.Buffer, windowMs int) []EnergyPoint {
	if buf == nil || buf.SampleRate <= 0 || len(buf.Samples) == 0 {
		return nil
	}
	if windowMs <= 0 {
		windowMs = DefaultWindowMs
	}

	windowSamples := buf.SampleRate * windowMs / 1000
	if windowSamples <= 0 {
		windowSamples = 1
	}
	windowSec := float64(windowMs) / 1000.0

	n := len(buf.Samples)
	numWindows := (n + windowSamples - 1) / windowSamples
	points := make([]EnergyPoint, 0, numWindows)

	for i := 0; i < numWindows; i++ {
		start := i * windowSamples
		end := start + windowSamples
		if end > n {
			end = n
		}

		sumSquares := 0.0
		for j := start; j < end; j++ {
			sumSquares += buf.Samples[j] * buf.Samples[j]
		}
		rms := math.Sqrt(sumSquares / float64(end-start))

		energy := rms / energyNormDivisor
		if energy > 1.0 {
			energy = 1.0
		}

		points = append(points, EnergyPoint{
			Time:   float64(i) * windowSec,
			Energy: energy,
		})
	}

	return points
}
