// Package store persists projects, audio analyses, scenes, and the style
// keyword cheatsheet in the agent's SQLite database. Writes are
// last-write-wins; the store offers no transactional guarantees across rows.
package store

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Analysis is the persisted summary of one audio analysis run.
type Analysis struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Filename    string    `json:"filename"`
	Duration    float64   `json:"duration"`
	BPM         int       `json:"bpm"`
	TotalScenes int       `json:"total_scenes"`
	CreatedAt   time.Time `json:"created_at"`
}

// SceneRecord is one stored scene row. Camera, lighting, and description are
// empty until the scene has been through visual mapping.
type SceneRecord struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	SceneNumber int       `json:"scene_number"`
	Start       float64   `json:"start"`
	End         float64   `json:"end"`
	Duration    float64   `json:"duration"`
	SectionType string    `json:"section_type"`
	Energy      string    `json:"energy"`
	Camera      string    `json:"camera,omitempty"`
	Lighting    string    `json:"lighting,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StyleKeyword is one cheatsheet row: a camera or lighting keyword for an
// energy tier.
type StyleKeyword struct {
	EnergyLevel string `json:"energy_level"`
	Category    string `json:"category"`
	Keyword     string `json:"keyword"`
}

const (
	CategoryCamera   = "camera"
	CategoryLighting = "lighting"
)

func NewID() string {
	return uuid.NewString()
}
