package visual

import (
	"fmt"

	"github.com/reelsmith/reelsmith-agent/internal/store"
)

const describeSystemPrompt = `You write single-sentence shot descriptions for music video scenes.
Respond with one vivid sentence under 200 characters. No quotes, no markdown, no preamble.`

func describeUserPrompt(scene *store.SceneRecord, tier string) string {
	return fmt.Sprintf(
		"Section: %s\nEnergy: %s\nDuration: %.1f seconds\nCamera: %s\nLighting: %s\nDescribe this scene.",
		scene.SectionType,
		tier,
		scene.Duration,
		scene.Camera,
		scene.Lighting,
	)
}
