package tasks

import (
	"fmt"

	"tunebridge/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or job store for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced consumers
}

// Operation phase enumeration
type Phase int

const (
	SearchTracks Phase = iota
	CreatePlaylist
	AddTracks
	Finalize
)

func (p Phase) String() string {
	switch p {
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case Finalize:
		return "finalize"
	default:
		return ""
	}
}

func searchTracksUpdate(step, total int, tr *models.Track) ProgressUpdate {
	if tr == nil {
		return ProgressUpdate{
			Phase:   SearchTracks,
			Step:    step,
			Total:   total,
			Message: "Searching for tracks on YouTube Music...",
		}
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Title),
	}
}

func matchFoundUpdate(step, total int, title string, c *models.Candidate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, title, c.VideoID),
		Data:    c,
	}
}

func matchFailedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s", step, total, title),
	}
}

func batchCompletedUpdate(matched, failed int) ProgressUpdate {
	total := matched + failed
	return ProgressUpdate{
		Phase:   Finalize,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Matched %d of %d tracks (%d failed)", matched, total, failed),
	}
}
