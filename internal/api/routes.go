package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelsmith/reelsmith-agent/internal/analysis"
	"github.com/reelsmith/reelsmith-agent/internal/audio"
	"github.com/reelsmith/reelsmith-agent/internal/config"
	"github.com/reelsmith/reelsmith-agent/internal/export"
	"github.com/reelsmith/reelsmith-agent/internal/logging"
	"github.com/reelsmith/reelsmith-agent/internal/stock"
	"github.com/reelsmith/reelsmith-agent/internal/store"
)

// maxUploadBytes caps analyze uploads. A 10 minute WAV at 44.1kHz stereo is
// around 100MB.
const maxUploadBytes = 128 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Post("/projects", createProjectHandler(cfg))
		r.Get("/projects", listProjectsHandler(cfg))
		r.Post("/analyze", analyzeHandler(cfg))
		r.Post("/scenes/process", processScenesHandler(cfg))
		r.Get("/projects/{id}/scenes", listScenesHandler(cfg))
		r.Get("/projects/{id}/analysis", getAnalysisHandler(cfg))
		r.Get("/projects/{id}/export/edl", exportEDLHandler(cfg))
		r.Get("/stock/search", stockSearchHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		projects, _ := cfg.Repository.CountProjects(ctx)
		scenes, _ := cfg.Repository.CountScenes(ctx)

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:            "ready",
			ProjectsCount:    projects,
			ScenesCount:      scenes,
			CheatsheetLoaded: cfg.Sheet != nil && cfg.Sheet.Loaded(),
			LLMEnabled:       cfg.LLMEnabled,
			StockEnabled:     cfg.Stock.Enabled(),
		})
	}
}

func createProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			WriteError(w, http.StatusBadRequest, "title is required", "BAD_REQUEST")
			return
		}

		project := &store.Project{
			ID:        store.NewID(),
			Title:     title,
			CreatedAt: time.Now().UTC(),
		}
		if err := cfg.Repository.CreateProject(r.Context(), project); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to create project", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusCreated, CreateProjectResponse{ProjectID: project.ID})
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := cfg.Repository.ListProjects(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}

		resp := ProjectsResponse{Projects: make([]ProjectResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = ProjectToResponse(p)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func analyzeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart body", "BAD_REQUEST")
			return
		}

		projectID := r.FormValue("project_id")
		if projectID == "" {
			WriteError(w, http.StatusBadRequest, "project_id is required", "BAD_REQUEST")
			return
		}
		project, err := cfg.Repository.GetProject(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if project == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}

		opts := analysis.Options{}
		if v := r.FormValue("max_scene_duration"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed <= 0 {
				WriteError(w, http.StatusBadRequest, "max_scene_duration must be a positive number", "BAD_REQUEST")
				return
			}
			opts.MaxSceneDuration = parsed
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "audio file is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read audio file", "BAD_REQUEST")
			return
		}

		result, err := cfg.Analyzer.Analyze(r.Context(), data, header.Filename, opts)
		if err != nil {
			if errors.Is(err, audio.ErrUndecodable) {
				WriteError(w, http.StatusUnprocessableEntity, "audio could not be decoded", "UNDECODABLE_AUDIO")
				return
			}
			WriteError(w, http.StatusInternalServerError, "analysis failed", "INTERNAL_ERROR")
			return
		}

		if err := persistAnalysis(r, cfg, projectID, result); err != nil {
			logging.WithProjectID(cfg.Logger, projectID).Error("failed to persist analysis", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to store analysis", "INTERNAL_ERROR")
			return
		}

		resp := AnalyzeResponse{
			ProjectID:     projectID,
			Filename:      result.Filename,
			Duration:      result.Duration,
			BPM:           result.BPM,
			TotalScenes:   result.TotalScenes,
			Scenes:        make([]SceneResponse, len(result.Scenes)),
			EnergyProfile: result.EnergyProfile,
		}
		for i, s := range result.Scenes {
			resp.Scenes[i] = SceneToResponse(AnalysisSceneToRecord(projectID, s))
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// persistAnalysis stores the summary row and replaces the project's scenes.
func persistAnalysis(r *http.Request, cfg ServerConfig, projectID string, result *analysis.Result) error {
	ctx := r.Context()

	if err := cfg.Repository.CreateAnalysis(ctx, &store.Analysis{
		ID:          store.NewID(),
		ProjectID:   projectID,
		Filename:    result.Filename,
		Duration:    result.Duration,
		BPM:         result.BPM,
		TotalScenes: result.TotalScenes,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := cfg.Repository.DeleteScenesByProject(ctx, projectID); err != nil {
		return err
	}
	for _, s := range result.Scenes {
		if err := cfg.Repository.UpsertScene(ctx, AnalysisSceneToRecord(projectID, s)); err != nil {
			return err
		}
	}
	return nil
}

func processScenesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProcessScenesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		var scenes []*store.SceneRecord
		persist := false

		switch {
		case req.ProjectID != "":
			stored, err := cfg.Repository.GetScenesByProject(r.Context(), req.ProjectID)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
				return
			}
			if len(stored) == 0 {
				WriteError(w, http.StatusNotFound, "no scenes stored for project", "NOT_FOUND")
				return
			}
			scenes = stored
			persist = true
		case len(req.Scenes) > 0:
			for _, in := range req.Scenes {
				scenes = append(scenes, SceneInputToRecord("", in))
			}
		default:
			WriteError(w, http.StatusBadRequest, "project_id or scenes required", "BAD_REQUEST")
			return
		}

		scenes = cfg.Mapper.ProcessScenes(r.Context(), scenes, req.Enhance())

		if persist {
			for _, s := range scenes {
				if err := cfg.Repository.UpsertScene(r.Context(), s); err != nil {
					WriteError(w, http.StatusInternalServerError, "failed to store scenes", "INTERNAL_ERROR")
					return
				}
			}
		}

		resp := ScenesResponse{Scenes: make([]SceneResponse, len(scenes))}
		for i, s := range scenes {
			resp.Scenes[i] = SceneToResponse(s)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listScenesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		if projectID == "" {
			WriteError(w, http.StatusBadRequest, "project id required", "BAD_REQUEST")
			return
		}

		scenes, err := cfg.Repository.GetScenesByProject(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		resp := ScenesResponse{Scenes: make([]SceneResponse, len(scenes))}
		for i, s := range scenes {
			resp.Scenes[i] = SceneToResponse(s)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getAnalysisHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		project, err := cfg.Repository.GetProject(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if project == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}

		latest, err := cfg.Repository.GetAnalysisByProject(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if latest == nil {
			WriteError(w, http.StatusNotFound, "no analysis stored for project", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, AnalysisToResponse(latest))
	}
}

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		project, err := cfg.Repository.GetProject(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if project == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}

		scenes, err := cfg.Repository.GetScenesByProject(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if len(scenes) == 0 {
			WriteError(w, http.StatusNotFound, "no scenes stored for project", "NOT_FOUND")
			return
		}

		frameRate := 30.0
		if v := r.URL.Query().Get("frame_rate"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed <= 0 {
				WriteError(w, http.StatusBadRequest, "frame_rate must be a positive number", "BAD_REQUEST")
				return
			}
			frameRate = parsed
		}

		title := export.SanitizeName(project.Title, 64)
		edl := export.GenerateEDL(export.FromSceneRecords(scenes), title, frameRate)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+title+`.edl"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(edl))
	}
}

// stockSearchHandler degrades to an empty result list on upstream failure;
// stock hits are advisory and must not fail the caller's workflow.
func stockSearchHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			WriteError(w, http.StatusBadRequest, "query is required", "BAD_REQUEST")
			return
		}

		perPage := 0
		if v := r.URL.Query().Get("per_page"); v != "" {
			perPage, _ = strconv.Atoi(v)
		}

		results := []stock.Clip{}
		if cfg.Stock.Enabled() {
			clips, err := cfg.Stock.Search(r.Context(), query, perPage)
			if err != nil {
				cfg.Logger.Warn("stock search failed", "query", query, "error", err)
			} else {
				results = append(results, clips...)
			}
		}

		WriteJSON(w, http.StatusOK, StockSearchResponse{Query: query, Results: results})
	}
}
