package api

import (
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/analysis"
	"github.com/reelsmith/reelsmith-agent/internal/stock"
	"github.com/reelsmith/reelsmith-agent/internal/store"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State            string `json:"state"`
	ProjectsCount    int    `json:"projects_count"`
	ScenesCount      int    `json:"scenes_count"`
	CheatsheetLoaded bool   `json:"cheatsheet_loaded"`
	LLMEnabled       bool   `json:"llm_enabled"`
	StockEnabled     bool   `json:"stock_enabled"`
}

type CreateProjectRequest struct {
	Title string `json:"title"`
}

type CreateProjectResponse struct {
	ProjectID string `json:"project_id"`
}

type ProjectResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// AnalyzeResponse is the full analysis result for one uploaded track.
type AnalyzeResponse struct {
	ProjectID     string                 `json:"project_id"`
	Filename      string                 `json:"filename"`
	Duration      float64                `json:"duration"`
	BPM           int                    `json:"bpm"`
	TotalScenes   int                    `json:"total_scenes"`
	Scenes        []SceneResponse        `json:"scenes"`
	EnergyProfile []analysis.EnergyPoint `json:"energy_profile"`
}

// AnalysisResponse is the stored summary of a project's latest analysis.
type AnalysisResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Filename    string  `json:"filename"`
	Duration    float64 `json:"duration"`
	BPM         int     `json:"bpm"`
	TotalScenes int     `json:"total_scenes"`
	CreatedAt   string  `json:"created_at"`
}

type SceneResponse struct {
	SceneNumber int     `json:"scene_number"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Duration    float64 `json:"duration"`
	SectionType string  `json:"section_type"`
	Energy      string  `json:"energy"`
	Camera      string  `json:"camera,omitempty"`
	Lighting    string  `json:"lighting,omitempty"`
	Description string  `json:"description,omitempty"`
}

type ScenesResponse struct {
	Scenes []SceneResponse `json:"scenes"`
}

// SceneInput is one scene in a process request. Mirrors SceneResponse so a
// client can round-trip an analyze result straight into /scenes/process.
type SceneInput struct {
	SceneNumber int     `json:"scene_number"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Duration    float64 `json:"duration"`
	SectionType string  `json:"section_type"`
	Energy      string  `json:"energy"`
}

type ProcessScenesRequest struct {
	ProjectID string       `json:"project_id,omitempty"`
	Scenes    []SceneInput `json:"scenes,omitempty"`
	// Pointer so an omitted field is distinguishable from explicit false;
	// omitted means enhancement on.
	UseAIEnhancement *bool `json:"use_ai_enhancement,omitempty"`
}

// Enhance resolves the use_ai_enhancement field, defaulting to true.
func (r ProcessScenesRequest) Enhance() bool {
	return r.UseAIEnhancement == nil || *r.UseAIEnhancement
}

type StockSearchResponse struct {
	Query   string       `json:"query"`
	Results []stock.Clip `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ProjectToResponse(p *store.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func AnalysisToResponse(a *store.Analysis) AnalysisResponse {
	return AnalysisResponse{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		Filename:    a.Filename,
		Duration:    a.Duration,
		BPM:         a.BPM,
		TotalScenes: a.TotalScenes,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

func SceneToResponse(s *store.SceneRecord) SceneResponse {
	return SceneResponse{
		SceneNumber: s.SceneNumber,
		Start:       s.Start,
		End:         s.End,
		Duration:    s.Duration,
		SectionType: s.SectionType,
		Energy:      s.Energy,
		Camera:      s.Camera,
		Lighting:    s.Lighting,
		Description: s.Description,
	}
}

// SceneInputToRecord builds an unsaved scene row from client input.
func SceneInputToRecord(projectID string, in SceneInput) *store.SceneRecord {
	return &store.SceneRecord{
		ID:          store.NewID(),
		ProjectID:   projectID,
		SceneNumber: in.SceneNumber,
		Start:       in.Start,
		End:         in.End,
		Duration:    in.Duration,
		SectionType: in.SectionType,
		Energy:      in.Energy,
	}
}

// AnalysisSceneToRecord converts one pipeline scene for persistence.
func AnalysisSceneToRecord(projectID string, s analysis.Scene) *store.SceneRecord {
	return &store.SceneRecord{
		ID:          store.NewID(),
		ProjectID:   projectID,
		SceneNumber: s.ID,
		Start:       s.Start,
		End:         s.End,
		Duration:    s.Duration,
		SectionType: s.Type,
		Energy:      string(s.Energy),
	}
}
