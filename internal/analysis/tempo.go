package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/reelsmith/reelsmith-agent/internal/audio"
)

const (
	// Only the opening of the track is scanned; tempo rarely changes enough
	// in 30 seconds to matter at this granularity.
	tempoWindowSeconds = 30.0

	// Peaks closer than this are treated as one beat. Encodes the
	// assumption that beats are not faster than ~200 BPM.
	minPeakSpacingSeconds = 0.3

	// Fewer peaks than this is not enough evidence for an estimate.
	minPeakCount = 11

	minBPM      = 60
	maxBPM      = 180
	FallbackBPM = 120

	// Peaks below this multiple of the window's mean absolute amplitude
	// are ignored as noise.
	peakThresholdRatio = 1.5
)

// tempoResult keeps the failure reason observable for logging and tests;
// the public boundary collapses it to a plain BPM value.
type tempoResult struct {
	bpm    int
	reason string
}

// EstimateBPM returns a coarse tempo estimate in [60, 180] from peak
// spacing in the first 30 seconds of the buffer. Any failure returns the
// fallback of 120. This is deliberately not beat tracking: it measures the
// median gap between prominent amplitude peaks and nothing more.
func EstimateBPM(buf *audio.Buffer) int {
	return estimateTempo(buf).bpm
}

func estimateTempo(buf *audio.Buffer) tempoResult {
	if buf == nil || buf.SampleRate <= 0 || len(buf.Samples) == 0 {
		return tempoResult{bpm: FallbackBPM, reason: "empty buffer"}
	}

	window := buf.Samples
	maxSamples := int(tempoWindowSeconds * float64(buf.SampleRate))
	if len(window) > maxSamples {
		window = window[:maxSamples]
	}

	peaks := detectPeaks(window, buf.SampleRate)
	if len(peaks) < minPeakCount {
		return tempoResult{bpm: FallbackBPM, reason: "insufficient peaks"}
	}

	gaps := make([]float64, len(peaks)-1)
	for i := range gaps {
		gaps[i] = float64(peaks[i+1]-peaks[i]) / float64(buf.SampleRate)
	}
	sort.Float64s(gaps)
	medianGap := stat.Quantile(0.5, stat.Empirical, gaps, nil)
	if medianGap <= 0 {
		return tempoResult{bpm: FallbackBPM, reason: "degenerate peak spacing"}
	}

	bpm := int(math.Round(60.0 / medianGap))
	if bpm < minBPM {
		bpm = minBPM
	}
	if bpm > maxBPM {
		bpm = maxBPM
	}
	return tempoResult{bpm: bpm}
}

// detectPeaks returns sample indices of local amplitude maxima above the
// noise threshold, at least minPeakSpacingSeconds apart.
func detectPeaks(samples []float64, sampleRate int) []int {
	if len(samples) < 3 {
		return nil
	}

	meanAbs := 0.0
	for _, s := range samples {
		meanAbs += math.Abs(s)
	}
	meanAbs /= float64(len(samples))
	threshold := meanAbs * peakThresholdRatio

	minSpacing := int(minPeakSpacingSeconds * float64(sampleRate))
	if minSpacing < 1 {
		minSpacing = 1
	}

	var peaks []int
	lastPeak := -minSpacing

	for i := 1; i < len(samples)-1; i++ {
		a := math.Abs(samples[i])
		if a <= threshold {
			continue
		}
		if a < math.Abs(samples[i-1]) || a < math.Abs(samples[i+1]) {
			continue
		}
		if i-lastPeak < minSpacing {
			continue
		}
		peaks = append(peaks, i)
		lastPeak = i
	}

	return peaks
}
