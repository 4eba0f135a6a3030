package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tunebridge/internal/models"
	"tunebridge/internal/shared"
)

// JobRepository implements models.Repository[*models.ConversionJob] for conversion tracking.
//
// Handles job CRUD operations with soft delete support and status-based queries.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository with the given database connection
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new conversion job into the database with generated ID and sequence
func (r *JobRepository) Create(job *models.ConversionJob) error {
	sequence, err := NextSequence(r.db, "jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	job.SetSequence(sequence)
	if job.ID() == "" {
		job.SetID(shared.GenerateID())
	}

	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO jobs (
			id, sequence, source_url, playlist_title, status, progress,
			result, error_message, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var result any = job.Result()
	if result == "" {
		result = nil
	}

	var errorMessage any = job.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	_, err = r.db.Exec(query,
		job.ID(),
		sequence,
		job.SourceURL(),
		job.PlaylistTitle(),
		job.Status(),
		job.Progress(),
		result,
		errorMessage,
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

// Get retrieves a conversion job by ID, excluding soft-deleted jobs
func (r *JobRepository) Get(id string) (*models.ConversionJob, error) {
	query := `
		SELECT id, sequence, source_url, playlist_title, status, progress,
			result, error_message, created_at, updated_at, deleted_at
		FROM jobs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing conversion job in the database
func (r *JobRepository) Update(job *models.ConversionJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	job.SetUpdatedAt(now)

	query := `
		UPDATE jobs
		SET playlist_title = ?, status = ?, progress = ?, result = ?,
			error_message = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	var result any = job.Result()
	if result == "" {
		result = nil
	}

	var errorMessage any = job.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	res, err := r.db.Exec(query,
		job.PlaylistTitle(),
		job.Status(),
		job.Progress(),
		result,
		errorMessage,
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found or already deleted: %s", job.ID())
	}

	return nil
}

// SetProgress updates a job's progress and moves it to processing if it is still in the started state.
//
// Progress writes skip terminal jobs so a worker finishing a step cannot
// overwrite a cancellation that raced it.
func (r *JobRepository) SetProgress(id string, progress int) error {
	query := `
		UPDATE jobs
		SET progress = ?,
			status = CASE WHEN status = ? THEN ? ELSE status END,
			updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
			AND status NOT IN (?, ?, ?)
	`

	_, err := r.db.Exec(query,
		progress,
		models.JobStarted, models.JobProcessing,
		time.Now(),
		id,
		models.JobCompleted, models.JobFailed, models.JobCancelled,
	)
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	return nil
}

// Complete marks a job completed with the serialized conversion result.
func (r *JobRepository) Complete(id, result string) error {
	return r.finish(id, models.JobCompleted, result, "")
}

// Fail marks a job failed with the given error message.
func (r *JobRepository) Fail(id, errorMessage string) error {
	return r.finish(id, models.JobFailed, "", errorMessage)
}

// Cancel marks a job cancelled if it has not already finished.
//
// Returns shared.ErrJobNotFound when no such job exists and
// shared.ErrJobTerminal when the job already reached a terminal state.
func (r *JobRepository) Cancel(id string) error {
	query := `
		UPDATE jobs
		SET status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
			AND status NOT IN (?, ?, ?)
	`

	res, err := r.db.Exec(query,
		models.JobCancelled,
		time.Now(),
		id,
		models.JobCompleted, models.JobFailed, models.JobCancelled,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel job: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		if _, err := r.Get(id); err != nil {
			return shared.ErrJobNotFound
		}
		return shared.ErrJobTerminal
	}

	return nil
}

// Delete soft-deletes a conversion job by ID
func (r *JobRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE jobs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	res, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all conversion jobs matching the given criteria, excluding soft-deleted jobs
func (r *JobRepository) List(criteria map[string]any) ([]*models.ConversionJob, error) {
	query := `
		SELECT id, sequence, source_url, playlist_title, status, progress,
			result, error_message, created_at, updated_at, deleted_at
		FROM jobs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ConversionJob
	for rows.Next() {
		job, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

// finish moves a job into a terminal state, preserving an earlier cancellation.
func (r *JobRepository) finish(id string, status models.JobStatus, result, errorMessage string) error {
	query := `
		UPDATE jobs
		SET status = ?, progress = ?, result = ?, error_message = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
			AND status NOT IN (?, ?, ?)
	`

	progress := 100
	if status != models.JobCompleted {
		progress = 0
	}

	var resultArg any = result
	if result == "" {
		resultArg = nil
	}

	var errorArg any = errorMessage
	if errorMessage == "" {
		errorArg = nil
	}

	res, err := r.db.Exec(query,
		status,
		progress,
		resultArg,
		errorArg,
		time.Now(),
		id,
		models.JobCompleted, models.JobFailed, models.JobCancelled,
	)
	if err != nil {
		return fmt.Errorf("failed to finish job: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		if _, err := r.Get(id); err != nil {
			return shared.ErrJobNotFound
		}
		return shared.ErrJobTerminal
	}

	return nil
}

// scanOne scans a single [sql.Row] into a [models.ConversionJob]
func (r *JobRepository) scanOne(row *sql.Row) (*models.ConversionJob, error) {
	var (
		id            string
		sequence      int
		sourceURL     string
		playlistTitle string
		status        string
		progress      int
		result        sql.NullString
		errorMessage  sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &sourceURL, &playlistTitle, &status, &progress,
		&result, &errorMessage, &createdAt, &updatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	return buildJob(id, sequence, sourceURL, playlistTitle, status, progress, result, errorMessage, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.ConversionJob]
func (r *JobRepository) scanRow(rows *sql.Rows) (*models.ConversionJob, error) {
	var (
		id            string
		sequence      int
		sourceURL     string
		playlistTitle string
		status        string
		progress      int
		result        sql.NullString
		errorMessage  sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := rows.Scan(
		&id, &sequence, &sourceURL, &playlistTitle, &status, &progress,
		&result, &errorMessage, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	return buildJob(id, sequence, sourceURL, playlistTitle, status, progress, result, errorMessage, createdAt, updatedAt, deletedAt), nil
}

func buildJob(id string, sequence int, sourceURL, playlistTitle, status string, progress int, result, errorMessage sql.NullString, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.ConversionJob {
	job := models.NewConversionJob(sequence, sourceURL, playlistTitle)
	job.SetID(id)
	job.SetCreatedAt(createdAt)
	job.SetUpdatedAt(updatedAt)
	job.SetStatusUnchecked(models.JobStatus(status))
	job.SetProgress(progress)

	if result.Valid {
		job.SetResult(result.String)
	}
	if errorMessage.Valid {
		job.SetError(errorMessage.String)
	}
	if deletedAt.Valid {
		job.SetDeletedAt(&deletedAt.Time)
	}

	return job
}
