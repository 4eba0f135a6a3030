package models

import (
	"fmt"
	"time"
)

// JobStatus enumerates the lifecycle states of a conversion job.
type JobStatus string

const (
	JobStarted    JobStatus = "started"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStarted, JobProcessing, JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// ConversionJob tracks one playlist conversion: the source URL it was started
// for, its lifecycle status, a 0-100 progress indicator, and the result or
// error it finished with.
type ConversionJob struct {
	id            string
	sequence      int
	sourceURL     string
	playlistTitle string
	status        JobStatus
	progress      int
	result        string // JSON payload, empty until completion
	errorMessage  string
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewConversionJob creates a job in the started state for the given source URL.
func NewConversionJob(sequence int, sourceURL, playlistTitle string) *ConversionJob {
	now := time.Now()
	return &ConversionJob{
		sequence:      sequence,
		sourceURL:     sourceURL,
		playlistTitle: playlistTitle,
		status:        JobStarted,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (j *ConversionJob) ID() string            { return j.id }
func (j *ConversionJob) Sequence() int         { return j.sequence }
func (j *ConversionJob) SourceURL() string     { return j.sourceURL }
func (j *ConversionJob) PlaylistTitle() string { return j.playlistTitle }
func (j *ConversionJob) Status() JobStatus     { return j.status }
func (j *ConversionJob) Progress() int         { return j.progress }
func (j *ConversionJob) Result() string        { return j.result }
func (j *ConversionJob) ErrorMessage() string  { return j.errorMessage }
func (j *ConversionJob) CreatedAt() time.Time  { return j.createdAt }
func (j *ConversionJob) UpdatedAt() time.Time  { return j.updatedAt }
func (j *ConversionJob) DeletedAt() *time.Time { return j.deletedAt }

func (j *ConversionJob) SetID(id string)            { j.id = id }
func (j *ConversionJob) SetSequence(seq int)        { j.sequence = seq }
func (j *ConversionJob) SetResult(result string)    { j.result = result }
func (j *ConversionJob) SetError(msg string)        { j.errorMessage = msg }
func (j *ConversionJob) SetUpdatedAt(ts time.Time)  { j.updatedAt = ts }
func (j *ConversionJob) SetDeletedAt(ts *time.Time) { j.deletedAt = ts }
func (j *ConversionJob) SetCreatedAt(ts time.Time)  { j.createdAt = ts }

// SetProgress clamps the progress indicator to [0, 100].
func (j *ConversionJob) SetProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	j.progress = p
}

// SetStatus transitions the job to the given status.
//
// Terminal states are sticky: once a job is completed, failed, or cancelled it
// cannot move again. Cancellation is checked by callers between conversion
// steps, so a late status write from an in-flight step must not resurrect a
// cancelled job.
func (j *ConversionJob) SetStatus(status JobStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown job status: %q", status)
	}
	if j.status.Terminal() && status != j.status {
		return fmt.Errorf("job %s is %s and cannot transition to %s", j.id, j.status, status)
	}
	j.status = status
	return nil
}

// SetStatusUnchecked restores a status read from the database without
// transition validation.
func (j *ConversionJob) SetStatusUnchecked(status JobStatus) {
	j.status = status
}

// Validate checks the job's invariants.
func (j *ConversionJob) Validate() error {
	if j.sourceURL == "" {
		return fmt.Errorf("job source URL is required")
	}
	if !j.status.Valid() {
		return fmt.Errorf("unknown job status: %q", j.status)
	}
	if j.progress < 0 || j.progress > 100 {
		return fmt.Errorf("job progress out of range: %d", j.progress)
	}
	return nil
}
