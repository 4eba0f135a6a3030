// package tasks implements search and conversion operations against the catalog.
package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"tunebridge/internal/matcher"
	"tunebridge/internal/models"
	"tunebridge/internal/services"
	"tunebridge/internal/shared"
)

// searchLimit caps how many candidates a single catalog search fetches.
const searchLimit = 10

// TrackCacher persists accepted matches for reuse across conversions.
type TrackCacher interface {
	CacheTrack(service string, candidate models.Candidate) error
}

// JobTracker is the slice of the job store the conversion runner needs.
// Implemented by repositories.JobRepository.
type JobTracker interface {
	Get(id string) (*models.ConversionJob, error)
	SetProgress(id string, progress int) error
	Complete(id, result string) error
	Fail(id, errorMessage string) error
}

// SearchEngine pairs the catalog with the scoring matcher.
type SearchEngine struct {
	catalog services.Catalog
	matcher *matcher.Matcher
	cache   TrackCacher
	logger  *log.Logger
}

// NewSearchEngine creates a SearchEngine with the provided dependencies.
//
// cache may be nil to skip match caching; logger may be nil to discard logs.
func NewSearchEngine(catalog services.Catalog, m *matcher.Matcher, cache TrackCacher, logger *log.Logger) *SearchEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &SearchEngine{
		catalog: catalog,
		matcher: m,
		cache:   cache,
		logger:  logger,
	}
}

// BuildQuery joins a track's title and artist into the free-text catalog query.
func BuildQuery(track models.Track) string {
	return strings.TrimSpace(track.Title + " " + track.Artist)
}

// SearchTrack searches the catalog for the track and picks the best candidate.
//
// Returns (nil, nil) when the catalog has no acceptable match; an error only
// signals a failed catalog call. Accepted matches are cached.
func (e *SearchEngine) SearchTrack(ctx context.Context, track models.Track) (*models.Candidate, error) {
	return e.search(ctx, BuildQuery(track), track)
}

// SearchQuery runs a raw free-text query, still scoring candidates against
// the given title/artist pair.
func (e *SearchEngine) SearchQuery(ctx context.Context, query string, track models.Track) (*models.Candidate, error) {
	return e.search(ctx, query, track)
}

func (e *SearchEngine) search(ctx context.Context, query string, track models.Track) (*models.Candidate, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	candidates, err := e.catalog.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	match := e.matcher.FindBestMatch(matcher.Query{Title: track.Title, Artist: track.Artist}, candidates)
	if match == nil {
		e.logger.Debug("no acceptable match", "title", track.Title, "artist", track.Artist, "candidates", len(candidates))
		return nil, nil
	}

	e.logger.Debug("match accepted", "title", track.Title, "videoId", match.VideoID)

	if e.cache != nil {
		if err := e.cache.CacheTrack(e.catalog.Name(), *match); err != nil {
			e.logger.Warn("failed to cache match", "videoId", match.VideoID, "error", err)
		}
	}

	return match, nil
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *SearchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
