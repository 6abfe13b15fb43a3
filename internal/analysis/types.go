// Package analysis implements the audio-to-scene segmentation pipeline:
// energy profiling, heuristic section detection, duration-constrained scene
// splitting, and coarse tempo estimation. Everything here is pure,
// synchronous, in-memory computation; the only failure that propagates out
// of the orchestrator is an undecodable input.
package analysis

// EnergyPoint is one normalized loudness sample of the energy profile.
type EnergyPoint struct {
	Time   float64 `json:"time"`
	Energy float64 `json:"energy"`
}

// SectionType is a coarse song-structure label.
type SectionType string

const (
	SectionIntro  SectionType = "Intro"
	SectionVerse  SectionType = "Verse"
	SectionChorus SectionType = "Chorus"
	SectionOutro  SectionType = "Outro"
)

// Section is a contiguous structural span of the track. Sections partition
// [0, duration) with no gaps or overlaps.
type Section struct {
	Type      SectionType `json:"type"`
	Start     float64     `json:"start"`
	End       float64     `json:"end"`
	AvgEnergy float64     `json:"avg_energy"`
}

// EnergyTier buckets a section's average energy for visual style selection.
type EnergyTier string

const (
	TierLow    EnergyTier = "Low"
	TierMedium EnergyTier = "Medium"
	TierHigh   EnergyTier = "High"
)

// Scene is one clip-sized interval ready for video generation. Duration
// never exceeds the splitter's maximum. Type carries the parent section's
// label, with a " (Part i/n)" suffix when the section was split.
type Scene struct {
	ID       int        `json:"id"`
	Start    float64    `json:"start"`
	End      float64    `json:"end"`
	Duration float64    `json:"duration"`
	Energy   EnergyTier `json:"energy"`
	Type     string     `json:"type"`
}

// Result is the full output of one analysis run.
type Result struct {
	Filename      string        `json:"filename"`
	Duration      float64       `json:"duration"`
	BPM           int           `json:"bpm"`
	Scenes        []Scene       `json:"scenes"`
	EnergyProfile []EnergyPoint `json:"energy_profile"`
	TotalScenes   int           `json:"total_scenes"`
}
