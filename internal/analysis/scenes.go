package analysis

import (
	"fmt"
	"math"
)

// DefaultMaxSceneDuration is the hard per-clip ceiling in seconds, matching
// the clip-length limit of the downstream video generation tools.
const DefaultMaxSceneDuration = 8.0

// Energy tier boundaries on a section's average energy.
const (
	tierLowUpper    = 0.4
	tierMediumUpper = 0.7
)

// ClassifyEnergy buckets an average energy value into its tier.
func ClassifyEnergy(avg float64) EnergyTier {
	switch {
	case avg < tierLowUpper:
		return TierLow
	case avg < tierMediumUpper:
		return TierMedium
	default:
		return TierHigh
	}
}

// SplitScenes re-partitions sections into scenes no longer than maxDuration.
// A section within the ceiling becomes one scene verbatim. An oversized
// section is divided into ceil(len/max) equal sub-chunks that tile it
// exactly, labeled "<type> (Part i/n)". Sub-chunks inherit the tier of the
// parent section's average energy rather than recomputing it over their
// narrower span. Scene ids are 1-based and sequential across the whole
// output.
func SplitScenes(sections []Section, maxDuration float64) []Scene {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxSceneDuration
	}

	var scenes []Scene
	id := 1

	for _, sec := range sections {
		length := sec.End - sec.Start
		tier := ClassifyEnergy(sec.AvgEnergy)

		if length <= maxDuration {
			scenes = append(scenes, Scene{
				ID:       id,
				Start:    sec.Start,
				End:      sec.End,
				Duration: length,
				Energy:   tier,
				Type:     string(sec.Type),
			})
			id++
			continue
		}

		numChunks := int(math.Ceil(length / maxDuration))
		chunkDuration := length / float64(numChunks)

		for i := 0; i < numChunks; i++ {
			start := sec.Start + float64(i)*chunkDuration
			end := start + chunkDuration
			if i == numChunks-1 {
				end = sec.End // absorb float error so chunks tile exactly
			}
			scenes = append(scenes, Scene{
				ID:       id,
				Start:    start,
				End:      end,
				Duration: end - start,
				Energy:   tier,
				Type:     fmt.Sprintf("%s (Part %d/%d)", sec.Type, i+1, numChunks),
			})
			id++
		}
	}

	return scenes
}
