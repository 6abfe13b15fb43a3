// Package export renders mapped scenes as CMX 3600 style EDLs for import
// into editing tools.
package export

import (
	"math"

	"github.com/reelsmith/reelsmith-agent/internal/store"
)

// SceneClip is one EDL event. Times are milliseconds on the music timeline.
type SceneClip struct {
	Name     string
	StartMs  int
	EndMs    int
	Camera   string
	Lighting string
}

// FromSceneRecords converts stored scenes to EDL clips, rounding seconds to
// milliseconds. Scene order is preserved.
func FromSceneRecords(scenes []*store.SceneRecord) []SceneClip {
	clips := make([]SceneClip, 0, len(scenes))
	for _, s := range scenes {
		clips = append(clips, SceneClip{
			Name:     s.SectionType,
			StartMs:  int(math.Round(s.Start * 1000)),
			EndMs:    int(math.Round(s.End * 1000)),
			Camera:   s.Camera,
			Lighting: s.Lighting,
		})
	}
	return clips
}
