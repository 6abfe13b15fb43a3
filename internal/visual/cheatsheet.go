// Package visual maps analyzed scenes to camera work, lighting, and scene
// descriptions using the style keyword cheatsheet.
package visual

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reelsmith/reelsmith-agent/internal/store"
)

// Styles holds the keyword lists for one energy tier.
type Styles struct {
	Camera   []string
	Lighting []string
}

// KeywordSource is the slice of the repository the cheatsheet needs.
type KeywordSource interface {
	ListStyleKeywords(ctx context.Context) ([]*store.StyleKeyword, error)
}

// Cheatsheet is a lazily loaded, cached view of the style keyword table.
// The first Table call loads from the repository; later calls reuse the
// cache until Invalidate. A load failure or an empty table falls back to
// the built-in keywords so mapping always has something to draw from.
type Cheatsheet struct {
	source KeywordSource
	logger *slog.Logger

	mu    sync.Mutex
	table map[string]Styles
}

func NewCheatsheet(source KeywordSource, logger *slog.Logger) *Cheatsheet {
	return &Cheatsheet{source: source, logger: logger}
}

// Table returns the tier-keyed style table, loading it on first use.
func (c *Cheatsheet) Table(ctx context.Context) map[string]Styles {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table != nil {
		return c.table
	}
	c.table = c.load(ctx)
	return c.table
}

// Loaded reports whether the cache is currently populated.
func (c *Cheatsheet) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table != nil
}

// Invalidate drops the cached table so the next Table call reloads it.
// Call after editing the style_keywords rows.
func (c *Cheatsheet) Invalidate() {
	c.mu.Lock()
	c.table = nil
	c.mu.Unlock()
}

func (c *Cheatsheet) load(ctx context.Context) map[string]Styles {
	if c.source == nil {
		return fallbackTable()
	}

	rows, err := c.source.ListStyleKeywords(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("style keyword load failed, using built-in table", "error", err)
		}
		return fallbackTable()
	}
	if len(rows) == 0 {
		if c.logger != nil {
			c.logger.Warn("style keyword table is empty, using built-in table")
		}
		return fallbackTable()
	}

	table := make(map[string]Styles)
	for _, row := range rows {
		styles := table[row.EnergyLevel]
		switch row.Category {
		case store.CategoryCamera:
			styles.Camera = append(styles.Camera, row.Keyword)
		case store.CategoryLighting:
			styles.Lighting = append(styles.Lighting, row.Keyword)
		}
		table[row.EnergyLevel] = styles
	}

	// Any tier missing from the rows is patched from the built-in table so
	// every tier always has both categories populated.
	for tier, fb := range fallbackTable() {
		styles := table[tier]
		if len(styles.Camera) == 0 {
			styles.Camera = fb.Camera
		}
		if len(styles.Lighting) == 0 {
			styles.Lighting = fb.Lighting
		}
		table[tier] = styles
	}
	return table
}

// fallbackTable mirrors the seed rows of the style_keywords migration.
func fallbackTable() map[string]Styles {
	return map[string]Styles{
		TierLow: {
			Camera: []string{
				"slow dolly in",
				"static wide shot",
				"gentle handheld drift",
				"slow lateral pan",
				"locked-off close-up",
			},
			Lighting: []string{
				"soft diffused light",
				"moody low-key shadows",
				"warm candlelight",
				"blue hour ambience",
				"hazy backlight",
			},
		},
		TierMedium: {
			Camera: []string{
				"steadicam glide",
				"tracking shot",
				"crane rise",
				"orbit around subject",
				"push-in on the beat",
			},
			Lighting: []string{
				"golden hour glow",
				"natural window light",
				"neon accent rims",
				"dappled sunlight",
				"balanced three-point",
			},
		},
		TierHigh: {
			Camera: []string{
				"whip pan",
				"fast dolly zoom",
				"energetic handheld shake",
				"drone flyover",
				"crash zoom",
			},
			Lighting: []string{
				"strobe flashes",
				"hard contrast spotlights",
				"saturated color wash",
				"lens-flare bursts",
				"pulsing club lights",
			},
		},
	}
}
