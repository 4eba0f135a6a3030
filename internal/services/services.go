// package services defines interface Catalog for interacting with the YouTube Music API
package services

import (
	"context"

	"tunebridge/internal/models"
)

// Catalog defines the interface for the upstream music catalog that conversion
// targets. Candidates it returns feed the scoring pass that picks a match.
type Catalog interface {
	// Search queries the catalog for songs matching the free-text query.
	// Returns up to limit candidates in the catalog's ranking order.
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)

	// CreatePlaylist creates a playlist and returns its ID.
	// Privacy is one of PRIVATE, PUBLIC, or UNLISTED.
	CreatePlaylist(ctx context.Context, title, description, privacy string) (string, error)

	// AddPlaylistItems appends the given video IDs to an existing playlist.
	AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error

	// Health reports whether the catalog is reachable and authenticated.
	Health(ctx context.Context) error

	// Name returns the name of the catalog (e.g., "YouTube Music")
	Name() string
}
