package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"tunebridge/internal/models"
	"tunebridge/internal/repositories"
	"tunebridge/internal/shared"
	"tunebridge/internal/ui"
)

// jobView flattens a conversion job into the shape the API returns.
func jobView(job *models.ConversionJob) map[string]any {
	view := map[string]any{
		"id":            job.ID(),
		"spotifyUrl":    job.SourceURL(),
		"playlistTitle": job.PlaylistTitle(),
		"status":        job.Status(),
		"progress":      job.Progress(),
		"createdAt":     job.CreatedAt().UTC().Format(time.RFC3339),
		"updatedAt":     job.UpdatedAt().UTC().Format(time.RFC3339),
	}
	if job.Result() != "" {
		view["result"] = json.RawMessage(job.Result())
	}
	if job.ErrorMessage() != "" {
		view["error"] = job.ErrorMessage()
	}
	return view
}

// JobsStart creates a conversion job record.
func (r *Runner) JobsStart(ctx context.Context, cmd *cli.Command) error {
	sourceURL := cmd.String("source-url")
	title := cmd.String("title")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	job := models.NewConversionJob(0, sourceURL, title)
	if err := repositories.NewJobRepository(db).Create(job); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	r.logger.Info("conversion job created", "id", job.ID(), "source", sourceURL)
	r.writePlain("%s\n", ui.OK("✓ conversion started"))
	r.writePlain("ID: %s\n", job.ID())

	return nil
}

// JobsList lists conversion jobs, optionally filtered by status.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	status := cmd.String("status")
	pretty := cmd.Bool("pretty")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if status != "" {
		criteria["status"] = status
	}

	jobs, err := repositories.NewJobRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	views := make([]map[string]any, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, jobView(job))
	}

	return r.writeJSON(views, pretty)
}

// JobsStatus shows a single conversion job.
func (r *Runner) JobsStatus(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	pretty := cmd.Bool("pretty")

	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	job, err := repositories.NewJobRepository(db).Get(id)
	if err != nil {
		return err
	}

	return r.writeJSON(jobView(job), pretty)
}

// JobsCancel cancels a running conversion job.
func (r *Runner) JobsCancel(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")

	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	switch err := repositories.NewJobRepository(db).Cancel(id); {
	case errors.Is(err, shared.ErrJobTerminal):
		r.writePlain("%s\n", ui.Warn("✗ conversion already finished"))
		return nil
	case err != nil:
		return err
	}

	r.logger.Info("conversion cancelled", "id", id)
	r.writePlain("%s\n", ui.OK("✓ conversion cancelled"))

	return nil
}
