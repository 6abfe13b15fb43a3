package visual

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/reelsmith/reelsmith-agent/internal/store"
)

type fakeSource struct {
	rows  []*store.StyleKeyword
	err   error
	calls int
}

func (f *fakeSource) ListStyleKeywords(ctx context.Context) ([]*store.StyleKeyword, error) {
	f.calls++
	return f.rows, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCheatsheet_LoadsFromSource(t *testing.T) {
	src := &fakeSource{rows: []*store.StyleKeyword{
		{EnergyLevel: TierHigh, Category: store.CategoryCamera, Keyword: "custom whip"},
		{EnergyLevel: TierHigh, Category: store.CategoryLighting, Keyword: "custom strobe"},
	}}
	sheet := NewCheatsheet(src, discardLogger())

	table := sheet.Table(context.Background())
	high := table[TierHigh]
	if len(high.Camera) != 1 || high.Camera[0] != "custom whip" {
		t.Errorf("High camera = %v, want the source row", high.Camera)
	}
	if len(high.Lighting) != 1 || high.Lighting[0] != "custom strobe" {
		t.Errorf("High lighting = %v, want the source row", high.Lighting)
	}

	// Tiers absent from the source are patched from the built-in table.
	for _, tier := range []string{TierLow, TierMedium} {
		styles := table[tier]
		if len(styles.Camera) == 0 || len(styles.Lighting) == 0 {
			t.Errorf("tier %s not patched from built-ins: %+v", tier, styles)
		}
	}
}

func TestCheatsheet_CachesUntilInvalidate(t *testing.T) {
	src := &fakeSource{rows: []*store.StyleKeyword{
		{EnergyLevel: TierLow, Category: store.CategoryCamera, Keyword: "first"},
	}}
	sheet := NewCheatsheet(src, discardLogger())
	ctx := context.Background()

	sheet.Table(ctx)
	sheet.Table(ctx)
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1 (cached)", src.calls)
	}

	src.rows = []*store.StyleKeyword{
		{EnergyLevel: TierLow, Category: store.CategoryCamera, Keyword: "second"},
	}
	sheet.Invalidate()
	table := sheet.Table(ctx)
	if src.calls != 2 {
		t.Errorf("source called %d times after invalidate, want 2", src.calls)
	}
	if table[TierLow].Camera[0] != "second" {
		t.Errorf("Low camera = %v, want reloaded row", table[TierLow].Camera)
	}
}

func TestCheatsheet_FallsBackOnError(t *testing.T) {
	src := &fakeSource{err: errors.New("db closed")}
	sheet := NewCheatsheet(src, discardLogger())

	table := sheet.Table(context.Background())
	for _, tier := range []string{TierLow, TierMedium, TierHigh} {
		styles := table[tier]
		if len(styles.Camera) != 5 || len(styles.Lighting) != 5 {
			t.Errorf("tier %s: got %d camera, %d lighting keywords; want 5 and 5",
				tier, len(styles.Camera), len(styles.Lighting))
		}
	}
}

func TestCheatsheet_FallsBackOnEmptyTable(t *testing.T) {
	sheet := NewCheatsheet(&fakeSource{}, discardLogger())
	table := sheet.Table(context.Background())
	if len(table[TierHigh].Camera) != 5 {
		t.Errorf("empty source should yield the built-in table, got %+v", table[TierHigh])
	}
}

func TestCheatsheet_NilSource(t *testing.T) {
	sheet := NewCheatsheet(nil, nil)
	table := sheet.Table(context.Background())
	if len(table) != 3 {
		t.Errorf("got %d tiers, want 3", len(table))
	}
}
