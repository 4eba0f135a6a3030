package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"tunebridge/internal/models"
	"tunebridge/internal/shared"
	"tunebridge/internal/ui"
)

// Search matches a single track against the catalog and prints the best match.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	artist := cmd.StringArg("artist")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	track := models.Track{Title: title, Artist: artist}
	r.logger.Info("searching catalog", "title", title, "artist", artist)

	match, err := r.engine.SearchTrack(ctx, track)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if match == nil {
		if useJSON {
			return r.writeJSON(map[string]any{"result": nil}, pretty)
		}
		r.writePlain("%s\n", ui.Warn("✗ no suitable match found"))
		return nil
	}

	if useJSON {
		return r.writeJSON(match, pretty)
	}

	r.writePlain("%s\n", ui.OK("✓ "+match.Title))
	r.writePlain("  Artists:  %s\n", match.JoinedArtists())
	if match.Duration != "" {
		r.writePlain("  Duration: %s\n", match.Duration)
	}
	r.writePlain("  %s\n", ui.Help(fmt.Sprintf("https://music.youtube.com/watch?v=%s", match.VideoID)))

	return nil
}
