package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"tunebridge/internal/formatter"
	"tunebridge/internal/models"
	"tunebridge/internal/shared"
	"tunebridge/internal/tasks"
	"tunebridge/internal/ui"
)

// Match runs a batch of tracks from a JSON file through the matcher and
// exports the report in the requested format.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	format := cmd.String("format")
	outputPath := cmd.String("output")
	pretty := cmd.Bool("pretty")

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var tracks []models.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return fmt.Errorf("%w: input must be a JSON array of {title, artist} entries: %v", shared.ErrInvalidInput, err)
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: input file has no tracks", shared.ErrInvalidInput)
	}

	r.logger.Info("matching batch", "tracks", len(tracks), "input", inputPath)

	report, err := r.engine.SearchBatch(ctx, nil, tracks, tasks.BatchSearchOpts{
		NumWorkers: r.config.Batch.Workers,
		RateLimit:  r.config.Batch.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("batch search failed: %w", err)
	}

	r.writeHeader("Match Report")
	r.writePlain("%s  %s\n\n",
		ui.OK(fmt.Sprintf("✓ %d matched", report.Matched)),
		ui.Err(fmt.Sprintf("✗ %d failed", report.Failed)),
	)

	switch format {
	case "json":
		if outputPath != "" {
			reportJSON, err := shared.MarshalJSON(report, pretty)
			if err != nil {
				return fmt.Errorf("failed to marshal report: %w", err)
			}
			if err := os.WriteFile(outputPath, reportJSON, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		} else if err := r.writeJSON(report, pretty); err != nil {
			return err
		}
	case "csv":
		if outputPath != "" {
			result, err := formatter.WriteCSVExport(report, outputPath)
			if err != nil {
				return err
			}
			r.writePlain("Report written to %s and %s\n", result.TracksFile, result.SummaryFile)
			return nil
		}
		rendered, err := formatter.ExportToCSV(report)
		if err != nil {
			return err
		}
		r.writePlain("%s", rendered)
	case "markdown", "md":
		if outputPath != "" {
			written, err := formatter.WriteMarkdownExport(report, outputPath, "")
			if err != nil {
				return err
			}
			r.writePlain("Report written to %s\n", written)
			return nil
		}
		rendered, err := formatter.ExportToMarkdown(report, "")
		if err != nil {
			return err
		}
		r.writePlain("%s", rendered)
	case "text", "txt":
		if outputPath != "" {
			written, err := formatter.WriteTextExport(report, outputPath)
			if err != nil {
				return err
			}
			r.writePlain("Report written to %s\n", written)
			return nil
		}
		rendered, err := formatter.ExportToText(report)
		if err != nil {
			return err
		}
		r.writePlain("%s", rendered)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	return nil
}
