package analysis

import (
	"gonum.org/v1/gonum/stat"
)

// DetectorConfig holds the section classification thresholds. The ratios
// are relative to the track's mean energy so the heuristic adapts to each
// track's overall loudness; the gates are fractions of total duration that
// keep position-dependent labels (Intro, Outro) near the ends of the track.
// The values are empirical tuning, which is why they are configuration
// rather than constants.
type DetectorConfig struct {
	HighRatio float64 // energy above mean*HighRatio classifies as Chorus
	LowRatio  float64 // energy below mean*LowRatio classifies as Verse/Outro
	IntroGate float64 // fraction of duration before which mid-band is Intro
	OutroGate float64 // fraction of duration after which low-band is Outro
}

// DefaultDetectorConfig returns the standard thresholds.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		HighRatio: 1.2,
		LowRatio:  0.8,
		IntroGate: 0.15,
		OutroGate: 0.90,
	}
}

// DetectSections classifies each energy point and coalesces runs of equal
// labels into sections covering [0, totalDuration) contiguously. An empty
// point sequence yields no sections; callers must tolerate zero scenes.
func DetectSections(points []EnergyPoint, totalDuration float64, cfg DetectorConfig) []Section {
	if len(points) == 0 || totalDuration <= 0 {
		return nil
	}

	energies := make([]float64, len(points))
	for i, p := range points {
		energies[i] = p.Energy
	}
	mean := stat.Mean(energies, nil)

	highThreshold := mean * cfg.HighRatio
	lowThreshold := mean * cfg.LowRatio

	classify := func(p EnergyPoint) SectionType {
		switch {
		case p.Energy > highThreshold:
			return SectionChorus
		case p.Energy < lowThreshold:
			if p.Time < cfg.OutroGate*totalDuration {
				return SectionVerse
			}
			return SectionOutro
		default:
			if p.Time < cfg.IntroGate*totalDuration {
				return SectionIntro
			}
			return SectionVerse
		}
	}

	var sections []Section
	current := classify(points[0])
	runStart := 0.0
	runSum := points[0].Energy
	runCount := 1

	for _, p := range points[1:] {
		label := classify(p)
		if label != current {
			sections = append(sections, Section{
				Type:      current,
				Start:     runStart,
				End:       p.Time,
				AvgEnergy: runSum / float64(runCount),
			})
			current = label
			runStart = p.Time
			runSum = 0
			runCount = 0
		}
		runSum += p.Energy
		runCount++
	}

	sections = append(sections, Section{
		Type:      current,
		Start:     runStart,
		End:       totalDuration,
		AvgEnergy: runSum / float64(runCount),
	})

	return sections
}
