package analysis

import (
	"fmt"
	"math"
	"testing"
)

func TestClassifyEnergy(t *testing.T) {
	tests := []struct {
		avg  float64
		want EnergyTier
	}{
		{0.0, TierLow},
		{0.2, TierLow},
		{0.39999, TierLow},
		{0.4, TierMedium},
		{0.5, TierMedium},
		{0.69999, TierMedium},
		{0.7, TierHigh},
		{0.9, TierHigh},
		{1.0, TierHigh},
	}
	for _, tc := range tests {
		if got := ClassifyEnergy(tc.avg); got != tc.want {
			t.Errorf("ClassifyEnergy(%v) = %s, want %s", tc.avg, got, tc.want)
		}
	}
}

func TestSplitScenes_ShortSectionVerbatim(t *testing.T) {
	sections := []Section{
		{Type: SectionIntro, Start: 0, End: 6.5, AvgEnergy: 0.3},
	}
	scenes := SplitScenes(sections, 8.0)

	if len(scenes) != 1 {
		t.Fatalf("got %d scenes, want 1", len(scenes))
	}
	s := scenes[0]
	if s.ID != 1 || s.Start != 0 || s.End != 6.5 || s.Duration != 6.5 {
		t.Errorf("scene = %+v, want id 1 spanning [0, 6.5)", s)
	}
	if s.Type != "Intro" {
		t.Errorf("scene type = %q, want %q (no part suffix)", s.Type, "Intro")
	}
	if s.Energy != TierLow {
		t.Errorf("scene energy = %s, want Low", s.Energy)
	}
}

func TestSplitScenes_OversizedSection(t *testing.T) {
	sections := []Section{
		{Type: SectionChorus, Start: 10, End: 30, AvgEnergy: 0.85},
	}
	scenes := SplitScenes(sections, 8.0)

	// 20s over an 8s ceiling divides into 3 equal chunks of ~6.667s.
	if len(scenes) != 3 {
		t.Fatalf("got %d scenes, want 3", len(scenes))
	}
	wantChunk := 20.0 / 3.0
	for i, s := range scenes {
		if s.ID != i+1 {
			t.Errorf("scenes[%d].ID = %d, want %d", i, s.ID, i+1)
		}
		if s.Duration > 8.0+1e-6 {
			t.Errorf("scenes[%d].Duration = %v exceeds the ceiling", i, s.Duration)
		}
		if math.Abs(s.Duration-wantChunk) > 1e-6 {
			t.Errorf("scenes[%d].Duration = %v, want %v", i, s.Duration, wantChunk)
		}
		wantType := fmt.Sprintf("Chorus (Part %d/3)", i+1)
		if s.Type != wantType {
			t.Errorf("scenes[%d].Type = %q, want %q", i, s.Type, wantType)
		}
		if s.Energy != TierHigh {
			t.Errorf("scenes[%d].Energy = %s, want High (inherited from parent)", i, s.Energy)
		}
	}
	if scenes[0].Start != 10 {
		t.Errorf("first chunk starts at %v, want 10", scenes[0].Start)
	}
	if scenes[2].End != 30 {
		t.Errorf("last chunk ends at %v, want exactly 30", scenes[2].End)
	}
	for i := 1; i < len(scenes); i++ {
		if scenes[i].Start != scenes[i-1].End {
			t.Errorf("chunks %d and %d do not tile: %v != %v",
				i-1, i, scenes[i-1].End, scenes[i].Start)
		}
	}
}

func TestSplitScenes_SequentialIDsAcrossSections(t *testing.T) {
	sections := []Section{
		{Type: SectionIntro, Start: 0, End: 4, AvgEnergy: 0.3},
		{Type: SectionVerse, Start: 4, End: 24, AvgEnergy: 0.5},
		{Type: SectionOutro, Start: 24, End: 27, AvgEnergy: 0.2},
	}
	scenes := SplitScenes(sections, 8.0)

	// 1 + ceil(20/8)=3 + 1 scenes.
	if len(scenes) != 5 {
		t.Fatalf("got %d scenes, want 5", len(scenes))
	}
	for i, s := range scenes {
		if s.ID != i+1 {
			t.Errorf("scenes[%d].ID = %d, want %d", i, s.ID, i+1)
		}
	}
	if scenes[0].Start != 0 {
		t.Errorf("first scene starts at %v, want 0", scenes[0].Start)
	}
	for i := 1; i < len(scenes); i++ {
		if math.Abs(scenes[i].Start-scenes[i-1].End) > 1e-6 {
			t.Errorf("scenes %d and %d do not tile: %v != %v",
				i-1, i, scenes[i-1].End, scenes[i].Start)
		}
	}
	if last := scenes[len(scenes)-1]; last.End != 27 {
		t.Errorf("last scene ends at %v, want 27", last.End)
	}
}

func TestSplitScenes_ExactCeilingNotSplit(t *testing.T) {
	sections := []Section{
		{Type: SectionVerse, Start: 0, End: 8.0, AvgEnergy: 0.5},
	}
	scenes := SplitScenes(sections, 8.0)
	if len(scenes) != 1 {
		t.Fatalf("section at exactly the ceiling split into %d scenes, want 1", len(scenes))
	}
	if scenes[0].Type != "Verse" {
		t.Errorf("scene type = %q, want %q", scenes[0].Type, "Verse")
	}
}

func TestSplitScenes_Empty(t *testing.T) {
	if got := SplitScenes(nil, 8.0); got != nil {
		t.Errorf("SplitScenes(nil) = %+v, want nil", got)
	}
}
