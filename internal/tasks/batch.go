package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"tunebridge/internal/models"
	"tunebridge/internal/shared"
)

// BatchSearchOpts contains configuration for batch track searches.
type BatchSearchOpts struct {
	NumWorkers int     // Concurrent searches (default: min(10, len(tracks)))
	RateLimit  float64 // Upstream searches per second (default: 5)

	// Cancelled is polled between units of work. When it returns true the
	// feeder stops handing out tracks and the batch drains early.
	Cancelled func() bool
}

// TrackSearchResult is the outcome of one track's search+match, correlated
// back to the originating query by title and artist.
type TrackSearchResult struct {
	Success        bool              `json:"success"`
	Result         *models.Candidate `json:"result,omitempty"`
	Error          string            `json:"error,omitempty"`
	OriginalTitle  string            `json:"originalTitle"`
	OriginalArtist string            `json:"originalArtist"`
}

// BatchSearchResult aggregates per-track results and summary counts.
type BatchSearchResult struct {
	Results   []TrackSearchResult `json:"results"`
	Total     int                 `json:"total"`
	Matched   int                 `json:"successful"`
	Failed    int                 `json:"failed"`
	Cancelled bool                `json:"cancelled,omitempty"`
}

type trackSearchJob struct {
	index int
	track models.Track
}

type indexedResult struct {
	index  int
	result TrackSearchResult
}

// SearchBatch searches for multiple tracks concurrently with rate limiting
// and progress tracking.
//
// Implements a bounded worker pool: each track gets one catalog search and
// one scoring pass, independent of the others. Results come back in input
// order regardless of completion order. A no-match is a per-track failure,
// never a batch error.
func (e *SearchEngine) SearchBatch(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	tracks []models.Track,
	opts BatchSearchOpts,
) (*BatchSearchResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	total := len(tracks)
	if total == 0 {
		return &BatchSearchResult{Results: []TrackSearchResult{}}, nil
	}

	if opts.NumWorkers <= 0 || opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.NumWorkers > total {
		opts.NumWorkers = total
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan trackSearchJob, total)
	results := make(chan indexedResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.searchWorker(ctx, &wg, limiter, jobs, results)
	}

	cancelled := false

	go func() {
		defer close(jobs)

		e.sendProgress(prog, searchTracksUpdate(0, total, nil))
		for i, track := range tracks {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if opts.Cancelled != nil && opts.Cancelled() {
				return
			}

			jobs <- trackSearchJob{index: i, track: track}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]TrackSearchResult, total)
	seen := make([]bool, total)
	completed := 0
	matched := 0

	for res := range results {
		completed++
		out[res.index] = res.result
		seen[res.index] = true

		track := tracks[res.index]
		if res.result.Success {
			matched++
			e.sendProgress(prog, matchFoundUpdate(completed, total, track.Title, res.result.Result))
		} else {
			e.sendProgress(prog, matchFailedUpdate(completed, total, track.Title))
		}
	}

	// Tracks the feeder never handed out (cancellation or context) report
	// as not attempted.
	for i, done := range seen {
		if done {
			continue
		}
		cancelled = true
		out[i] = TrackSearchResult{
			Success:        false,
			Error:          "search not attempted",
			OriginalTitle:  tracks[i].Title,
			OriginalArtist: tracks[i].Artist,
		}
	}

	failed := total - matched
	e.sendProgress(prog, batchCompletedUpdate(matched, failed))

	result := &BatchSearchResult{
		Results:   out,
		Total:     total,
		Matched:   matched,
		Failed:    failed,
		Cancelled: cancelled,
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch search aborted: %w", err)
	}

	return result, nil
}

// searchWorker is a worker goroutine that searches tracks from the jobs channel.
func (e *SearchEngine) searchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan trackSearchJob,
	results chan<- indexedResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		res := TrackSearchResult{
			OriginalTitle:  job.track.Title,
			OriginalArtist: job.track.Artist,
		}

		match, err := e.SearchTrack(ctx, job.track)
		switch {
		case err != nil:
			res.Error = err.Error()
		case match == nil:
			res.Error = "no match found"
		default:
			res.Success = true
			res.Result = match
		}

		results <- indexedResult{index: job.index, result: res}
	}
}

// RunConversion executes a batch search on behalf of a persisted conversion
// job, writing progress to the job store as tracks complete.
//
// Cancellation is honored between units of work: the feeder polls the stored
// job status and stops handing out searches once the job is cancelled. A
// cancelled run returns shared.ErrJobCancelled and leaves the job record in
// its cancelled state.
func (e *SearchEngine) RunConversion(ctx context.Context, jobStore JobTracker, jobID string, tracks []models.Track, opts BatchSearchOpts) (*BatchSearchResult, error) {
	if jobStore == nil {
		return nil, fmt.Errorf("%w: job store not initialized", shared.ErrServiceUnavailable)
	}

	if _, err := jobStore.Get(jobID); err != nil {
		return nil, err
	}

	total := len(tracks)

	opts.Cancelled = func() bool {
		job, err := jobStore.Get(jobID)
		if err != nil {
			return false
		}
		return job.Status() == models.JobCancelled
	}

	prog := make(chan ProgressUpdate, total+4)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range prog {
			if update.Phase != SearchTracks || update.Total == 0 || update.Step == 0 {
				continue
			}
			pct := update.Step * 100 / update.Total
			if err := jobStore.SetProgress(jobID, pct); err != nil {
				e.logger.Warn("failed to persist job progress", "job", jobID, "error", err)
			}
		}
	}()

	result, err := e.SearchBatch(ctx, prog, tracks, opts)
	close(prog)
	<-done

	if err != nil {
		msg := err.Error()
		if failErr := jobStore.Fail(jobID, msg); failErr != nil && !errors.Is(failErr, shared.ErrJobTerminal) {
			e.logger.Warn("failed to mark job failed", "job", jobID, "error", failErr)
		}
		return result, err
	}

	if result.Cancelled {
		return result, shared.ErrJobCancelled
	}

	payload, err := shared.MarshalJSON(result, false)
	if err != nil {
		jobStore.Fail(jobID, "failed to serialize conversion result")
		return result, fmt.Errorf("failed to serialize conversion result: %w", err)
	}

	if err := jobStore.Complete(jobID, string(payload)); err != nil {
		if errors.Is(err, shared.ErrJobTerminal) {
			return result, shared.ErrJobCancelled
		}
		return result, err
	}

	return result, nil
}
