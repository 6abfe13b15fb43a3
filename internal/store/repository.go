package store

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	CountProjects(ctx context.Context) (int, error)

	CreateAnalysis(ctx context.Context, a *Analysis) error
	GetAnalysisByProject(ctx context.Context, projectID string) (*Analysis, error)

	UpsertScene(ctx context.Context, s *SceneRecord) error
	GetScenesByProject(ctx context.Context, projectID string) ([]*SceneRecord, error)
	DeleteScenesByProject(ctx context.Context, projectID string) error
	CountScenes(ctx context.Context) (int, error)

	ListStyleKeywords(ctx context.Context) ([]*StyleKeyword, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p *Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, created_at)
		VALUES (?, ?, ?)
	`, p.ID, p.Title, p.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, created_at FROM projects WHERE id = ?
	`, id)

	var p Project
	var createdAt string
	err := row.Scan(&p.ID, &p.Title, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, created_at FROM projects ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		var p Project
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Title, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) CountProjects(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) CreateAnalysis(ctx context.Context, a *Analysis) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, project_id, filename, duration_s, bpm, total_scenes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.ProjectID, a.Filename, a.Duration, a.BPM, a.TotalScenes, a.CreatedAt.Format(time.RFC3339))
	return err
}

// GetAnalysisByProject returns the most recent analysis for the project, or
// nil when none has been stored.
func (r *SQLiteRepository) GetAnalysisByProject(ctx context.Context, projectID string) (*Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, filename, duration_s, bpm, total_scenes, created_at
		FROM analyses WHERE project_id = ? ORDER BY created_at DESC LIMIT 1
	`, projectID)

	var a Analysis
	var createdAt string
	err := row.Scan(&a.ID, &a.ProjectID, &a.Filename, &a.Duration, &a.BPM, &a.TotalScenes, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// UpsertScene writes a scene row, replacing any previous row for the same
// project and scene number. Last writer wins.
func (r *SQLiteRepository) UpsertScene(ctx context.Context, s *SceneRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scenes (id, project_id, scene_number, start_s, end_s, duration_s,
			section_type, energy, camera, lighting, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, scene_number) DO UPDATE SET
			start_s = excluded.start_s,
			end_s = excluded.end_s,
			duration_s = excluded.duration_s,
			section_type = excluded.section_type,
			energy = excluded.energy,
			camera = excluded.camera,
			lighting = excluded.lighting,
			description = excluded.description
	`, s.ID, s.ProjectID, s.SceneNumber, s.Start, s.End, s.Duration,
		s.SectionType, s.Energy, s.Camera, s.Lighting, s.Description,
		s.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetScenesByProject(ctx context.Context, projectID string) ([]*SceneRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, scene_number, start_s, end_s, duration_s,
			section_type, energy, camera, lighting, description, created_at
		FROM scenes WHERE project_id = ? ORDER BY scene_number ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []*SceneRecord
	for rows.Next() {
		var s SceneRecord
		var createdAt string
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.SceneNumber, &s.Start, &s.End, &s.Duration,
			&s.SectionType, &s.Energy, &s.Camera, &s.Lighting, &s.Description, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		scenes = append(scenes, &s)
	}
	return scenes, rows.Err()
}

func (r *SQLiteRepository) DeleteScenesByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM scenes WHERE project_id = ?", projectID)
	return err
}

func (r *SQLiteRepository) CountScenes(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scenes").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) ListStyleKeywords(ctx context.Context) ([]*StyleKeyword, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT energy_level, category, keyword FROM style_keywords ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []*StyleKeyword
	for rows.Next() {
		var k StyleKeyword
		if err := rows.Scan(&k.EnergyLevel, &k.Category, &k.Keyword); err != nil {
			return nil, err
		}
		keywords = append(keywords, &k)
	}
	return keywords, rows.Err()
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
