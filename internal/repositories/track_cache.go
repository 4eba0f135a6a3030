package repositories

import (
	"fmt"
	"strings"

	"tunebridge/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Provides automatic caching of accepted matches with deduplication via
// service+service_id constraints. Duplicate tracks are silently ignored
// (UNIQUE constraint violations).
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack caches an accepted match from the catalog.
// Returns nil if the track already exists (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (a *TrackCacheAdapter) CacheTrack(service string, candidate models.Candidate) error {
	existing, err := a.repo.GetByServiceID(service, candidate.VideoID)
	if err == nil && existing != nil {
		return nil
	}

	track := models.NewPersistedTrack(0, service, candidate.VideoID, candidate.Title, candidate.JoinedArtists(), candidate.Duration)

	err = a.repo.Create(track)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}
