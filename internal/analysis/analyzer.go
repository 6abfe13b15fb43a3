package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reelsmith/reelsmith-agent/internal/audio"
	"github.com/reelsmith/reelsmith-agent/internal/logging"
)

// Options tune one analysis run. Zero values select the defaults.
type Options struct {
	MaxSceneDuration float64
	WindowMs         int
	Detector         *DetectorConfig
}

// Analyzer sequences decode, energy profiling, section detection, scene
// splitting, and tempo estimation over one uploaded track.
type Analyzer struct {
	decoder  *audio.Decoder
	detector DetectorConfig
	logger   *slog.Logger
}

func NewAnalyzer(decoder *audio.Decoder, logger *slog.Logger) *Analyzer {
	if logger != nil {
		logger = logging.WithComponent(logger, "analyzer")
	}
	return &Analyzer{
		decoder:  decoder,
		detector: DefaultDetectorConfig(),
		logger:   logger,
	}
}

// Analyze runs the full pipeline over raw audio bytes. Decoding is the only
// fatal step; tempo estimation failures fall back to the default BPM and a
// degenerate (silent or empty) signal produces a valid zero-energy result.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, filename string, opts Options) (*Result, error) {
	buf, err := a.decoder.Decode(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", filename, err)
	}

	maxDuration := opts.MaxSceneDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxSceneDuration
	}
	windowMs := opts.WindowMs
	if windowMs <= 0 {
		windowMs = DefaultWindowMs
	}
	detector := a.detector
	if opts.Detector != nil {
		detector = *opts.Detector
	}

	duration := buf.Duration()
	profile := EnergyProfile(buf, windowMs)
	sections := DetectSections(profile, duration, detector)
	scenes := SplitScenes(sections, maxDuration)
	bpm := a.estimateBPM(buf)

	if a.logger != nil {
		a.logger.Info("audio analysis complete",
			"filename", filename,
			"duration_s", duration,
			"bpm", bpm,
			"sections", len(sections),
			"scenes", len(scenes),
		)
	}

	return &Result{
		Filename:      filename,
		Duration:      duration,
		BPM:           bpm,
		Scenes:        scenes,
		EnergyProfile: profile,
		TotalScenes:   len(scenes),
	}, nil
}

func (a *Analyzer) estimateBPM(buf *audio.Buffer) int {
	res := estimateTempo(buf)
	if res.reason != "" && a.logger != nil {
		a.logger.Warn("tempo estimation fell back to default",
			"reason", res.reason, "bpm", res.bpm)
	}
	return res.bpm
}
