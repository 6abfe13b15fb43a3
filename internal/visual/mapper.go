package visual

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/logging"
	"github.com/reelsmith/reelsmith-agent/internal/store"
)

// Energy tier names as stored on scene rows.
const (
	TierLow    = "Low"
	TierMedium = "Medium"
	TierHigh   = "High"
)

// MaxDescriptionLen caps scene descriptions so they fit the shot list UI
// and downstream prompt fields.
const MaxDescriptionLen = 200

// Describer phrases a scene description from a prompt. *llm.Client
// satisfies this; a nil describer means templated descriptions only.
type Describer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Mapper assigns camera work, lighting, and a description to each scene
// based on its energy tier. Keyword choice is random per scene; the rand
// source is injectable so tests are deterministic.
type Mapper struct {
	sheet     *Cheatsheet
	describer Describer
	rng       *rand.Rand
	logger    *slog.Logger
}

func NewMapper(sheet *Cheatsheet, describer Describer, rng *rand.Rand, logger *slog.Logger) *Mapper {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger != nil {
		logger = logging.WithComponent(logger, "mapper")
	}
	return &Mapper{
		sheet:     sheet,
		describer: describer,
		rng:       rng,
		logger:    logger,
	}
}

// ProcessScenes returns a new record per input scene with Camera, Lighting,
// and Description filled in. Inputs are never mutated; order and all other
// fields carry over unchanged. Scenes with an unknown energy tier are mapped
// as Medium. With enhance false (or no describer wired) descriptions come
// from the templates.
func (m *Mapper) ProcessScenes(ctx context.Context, scenes []*store.SceneRecord, enhance bool) []*store.SceneRecord {
	table := m.sheet.Table(ctx)

	mapped := make([]*store.SceneRecord, 0, len(scenes))
	for _, scene := range scenes {
		tier := scene.Energy
		styles, ok := table[tier]
		if !ok {
			if m.logger != nil {
				m.logger.Warn("unknown energy tier, mapping as Medium",
					"scene", scene.SceneNumber, "tier", tier)
			}
			tier = TierMedium
			styles = table[tier]
		}

		out := *scene
		out.Camera = pick(m.rng, styles.Camera)
		out.Lighting = pick(m.rng, styles.Lighting)
		out.Description = m.describe(ctx, &out, tier, enhance)
		mapped = append(mapped, &out)
	}
	return mapped
}

func pick(rng *rand.Rand, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rng.Intn(len(options))]
}

// describe prefers the LLM when one is wired in; any failure falls back to
// the template without surfacing an error to the caller.
func (m *Mapper) describe(ctx context.Context, scene *store.SceneRecord, tier string, enhance bool) string {
	if enhance && m.describer != nil {
		text, err := m.describer.Complete(ctx, describeSystemPrompt, describeUserPrompt(scene, tier))
		if err == nil {
			if desc := clampDescription(text); desc != "" {
				return desc
			}
		} else if m.logger != nil {
			m.logger.Warn("llm description failed, using template",
				"scene", scene.SceneNumber, "error", err)
		}
	}
	return clampDescription(m.templateDescription(scene, tier))
}

// descriptionTemplates are the non-LLM phrasings, keyed by energy tier.
// Every template takes section, duration, camera, lighting in that order.
var descriptionTemplates = map[string][]string{
	TierLow: {
		"Intimate %s running %.1fs: %s under %s.",
		"Quiet %s held for %.1fs, a %s washed in %s.",
		"Restrained %s across %.1fs, %s beneath %s.",
	},
	TierMedium: {
		"Confident %s flowing for %.1fs: %s in %s.",
		"Steady %s over %.1fs, a %s carried by %s.",
		"Assured %s running %.1fs, %s framed in %s.",
	},
	TierHigh: {
		"Explosive %s hitting for %.1fs: %s under %s.",
		"Frenetic %s burst of %.1fs, %s slashed by %s.",
		"High-octane %s for %.1fs, %s drenched in %s.",
	},
}

// templateDescription picks one of the tier's phrase templates at random
// and renders it with the scene's section and chosen keywords.
func (m *Mapper) templateDescription(scene *store.SceneRecord, tier string) string {
	templates := descriptionTemplates[tier]
	if len(templates) == 0 {
		templates = descriptionTemplates[TierMedium]
	}
	tpl := templates[m.rng.Intn(len(templates))]

	return fmt.Sprintf(tpl,
		strings.ToLower(scene.SectionType),
		scene.Duration,
		scene.Camera,
		scene.Lighting,
	)
}

func clampDescription(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > MaxDescriptionLen {
		return string(runes[:MaxDescriptionLen])
	}
	return text
}
