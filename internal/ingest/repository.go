package ingest

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftcut/draftcut-agent/internal/timeline"
)

type Repository interface {
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	UpdateAssetMedia(ctx context.Context, asset *Asset) error
	UpdateAssetStatus(ctx context.Context, id, status, errorMsg string) error
	DeleteAsset(ctx context.Context, id string) error

	ReplaceAnalysisClips(ctx context.Context, assetID string, clips []timeline.AnalysisClip) error
	GetAnalysisClips(ctx context.Context, assetID string) ([]timeline.AnalysisClip, error)

	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]*Job, error)
	ListPendingJobs(ctx context.Context) ([]*Job, error)
	UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error
	UpdateJobProgress(ctx context.Context, id string, progress int) error

	CreateExport(ctx context.Context, export *Export) error
	GetExport(ctx context.Context, id string) (*Export, error)
	ListExports(ctx context.Context, limit int) ([]*Export, error)
	UpdateExportStatus(ctx context.Context, id, status, artifactPath, errorMsg string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, source_path, normalized_path, waveform_path, duration_s,
			has_audio, rotation, width, height, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.SourcePath, nullString(a.NormalizedPath), nullString(a.WaveformPath), a.Duration,
		boolToInt(a.HasAudio), a.Rotation, a.Width, a.Height, a.Status, nullString(a.Error),
		a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339))
	return err
}

const assetColumns = `id, source_path, normalized_path, waveform_path, duration_s,
	has_audio, rotation, width, height, status, error, created_at, updated_at`

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	return scanAsset(row.Scan)
}

func (r *SQLiteRepository) ListAssets(ctx context.Context) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func scanAsset(scan func(dest ...any) error) (*Asset, error) {
	var a Asset
	var normalized, waveform, errMsg sql.NullString
	var hasAudio int
	var createdAt, updatedAt string

	err := scan(&a.ID, &a.SourcePath, &normalized, &waveform, &a.Duration,
		&hasAudio, &a.Rotation, &a.Width, &a.Height, &a.Status, &errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.NormalizedPath = normalized.String
	a.WaveformPath = waveform.String
	a.Error = errMsg.String
	a.HasAudio = hasAudio == 1
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &a, nil
}

func (r *SQLiteRepository) UpdateAssetMedia(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE assets SET normalized_path = ?, waveform_path = ?, duration_s = ?,
			has_audio = ?, rotation = ?, width = ?, height = ?, updated_at = datetime('now')
		WHERE id = ?
	`, nullString(a.NormalizedPath), nullString(a.WaveformPath), a.Duration,
		boolToInt(a.HasAudio), a.Rotation, a.Width, a.Height, a.ID)
	return err
}

func (r *SQLiteRepository) UpdateAssetStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE assets SET status = ?, error = ?, updated_at = datetime('now') WHERE id = ?
	`, status, nullString(errorMsg), id)
	return err
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) ReplaceAnalysisClips(ctx context.Context, assetID string, clips []timeline.AnalysisClip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM analysis_clips WHERE asset_id = ?", assetID); err != nil {
		return err
	}
	for i, c := range clips {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO analysis_clips (id, asset_id, position, label, kind, start_s, end_s)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, c.ID, assetID, i, c.Label, string(c.Kind), c.Start, c.End)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetAnalysisClips(ctx context.Context, assetID string) ([]timeline.AnalysisClip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, kind, start_s, end_s
		FROM analysis_clips WHERE asset_id = ? ORDER BY position
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []timeline.AnalysisClip
	for rows.Next() {
		var c timeline.AnalysisClip
		var kind string
		if err := rows.Scan(&c.ID, &c.Label, &kind, &c.Start, &c.End); err != nil {
			return nil, err
		}
		c.Kind = timeline.ClipKind(kind)
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func (r *SQLiteRepository) CreateJob(ctx context.Context, j *Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, type, status, asset_id, progress, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, j.ID, j.Type, j.Status, nullString(j.AssetID), j.Progress, nullString(j.Error),
		j.CreatedAt.Format(time.RFC3339), j.UpdatedAt.Format(time.RFC3339))
	return err
}

const jobColumns = `id, type, status, asset_id, progress, error, created_at, updated_at`

func (r *SQLiteRepository) GetJob(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	return scanJob(row.Scan)
}

func (r *SQLiteRepository) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *SQLiteRepository) ListPendingJobs(ctx context.Context) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE status = 'pending' ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJob(scan func(dest ...any) error) (*Job, error) {
	var j Job
	var assetID, errMsg sql.NullString
	var createdAt, updatedAt string

	err := scan(&j.ID, &j.Type, &j.Status, &assetID, &j.Progress, &errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	j.AssetID = assetID.String
	j.Error = errMsg.String
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}

func scanJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *SQLiteRepository) CreateExport(ctx context.Context, e *Export) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (id, project_id, resolution, format, status, artifact_path, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ProjectID, e.Resolution, e.Format, e.Status, nullString(e.ArtifactPath), nullString(e.Error),
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339))
	return err
}

const exportColumns = `id, project_id, resolution, format, status, artifact_path, error, created_at, updated_at`

func (r *SQLiteRepository) GetExport(ctx context.Context, id string) (*Export, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+exportColumns+` FROM exports WHERE id = ?`, id)
	return scanExport(row.Scan)
}

func (r *SQLiteRepository) ListExports(ctx context.Context, limit int) ([]*Export, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+exportColumns+` FROM exports ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*Export
	for rows.Next() {
		e, err := scanExport(rows.Scan)
		if err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

func scanExport(scan func(dest ...any) error) (*Export, error) {
	var e Export
	var artifact, errMsg sql.NullString
	var createdAt, updatedAt string

	err := scan(&e.ID, &e.ProjectID, &e.Resolution, &e.Format, &e.Status, &artifact, &errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.ArtifactPath = artifact.String
	e.Error = errMsg.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &e, nil
}

func (r *SQLiteRepository) UpdateExportStatus(ctx context.Context, id, status, artifactPath, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE exports SET status = ?, artifact_path = ?, error = ?, updated_at = datetime('now') WHERE id = ?
	`, status, nullString(artifactPath), nullString(errorMsg), id)
	return err
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
