package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"tunebridge/internal/models"
	"tunebridge/internal/repositories"
	"tunebridge/internal/services"
	"tunebridge/internal/shared"
	"tunebridge/internal/tasks"
)

// HealthHandler serves the readiness probe.
type HealthHandler struct {
	catalog services.Catalog
	db      *sql.DB
}

// NewHealthHandler creates a HealthHandler probing the given catalog and database.
func NewHealthHandler(catalog services.Catalog, db *sql.DB) *HealthHandler {
	return &HealthHandler{catalog: catalog, db: db}
}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	catalogReady := h.catalog != nil && h.catalog.Health(r.Context()) == nil
	storeReady := h.db != nil && h.db.PingContext(r.Context()) == nil

	respondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"status":        "healthy",
		"catalog_ready": catalogReady,
		"store_ready":   storeReady,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// SearchHandler serves single and batch track search.
type SearchHandler struct {
	engine *tasks.SearchEngine
	jobs   tasks.JobTracker
	batch  shared.BatchConfig
	logger *log.Logger
}

// NewSearchHandler creates a SearchHandler.
//
// jobs may be nil when batch requests never reference conversion jobs.
func NewSearchHandler(engine *tasks.SearchEngine, jobs tasks.JobTracker, batch shared.BatchConfig, logger *log.Logger) *SearchHandler {
	return &SearchHandler{engine: engine, jobs: jobs, batch: batch, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SearchHandler) Routes() []string {
	return []string{"POST /search", "POST /search-batch"}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/search":
		h.search(w, r)
	case "/search-batch":
		h.searchBatch(w, r)
	default:
		respondError(w, http.StatusNotFound, "not found")
	}
}

func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query  string `json:"query"`
		Title  string `json:"title"`
		Artist string `json:"artist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Query == "" && req.Title == "" {
		respondError(w, http.StatusBadRequest, "query or title/artist is required")
		return
	}

	track := models.Track{Title: req.Title, Artist: req.Artist}
	query := req.Query
	if query == "" {
		query = tasks.BuildQuery(track)
	}

	match, err := h.engine.SearchQuery(r.Context(), query, track)
	if err != nil {
		h.logger.Error("search failed", "query", query, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if match == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result":  nil,
			"message": "no suitable match found",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  match,
	})
}

func (h *SearchHandler) searchBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tracks       []models.Track `json:"tracks"`
		ConversionID string         `json:"conversionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(req.Tracks) == 0 {
		respondError(w, http.StatusBadRequest, "tracks array is required")
		return
	}

	opts := tasks.BatchSearchOpts{
		NumWorkers: h.batch.Workers,
		RateLimit:  h.batch.RateLimit,
	}

	var result *tasks.BatchSearchResult
	var err error

	if req.ConversionID != "" {
		result, err = h.engine.RunConversion(r.Context(), h.jobs, req.ConversionID, req.Tracks, opts)
	} else {
		result, err = h.engine.SearchBatch(r.Context(), nil, req.Tracks, opts)
	}

	switch {
	case errors.Is(err, shared.ErrJobCancelled):
		// Partial results from before the cancellation still go back.
	case errors.Is(err, shared.ErrJobNotFound):
		respondError(w, http.StatusNotFound, "conversion not found")
		return
	case err != nil:
		h.logger.Error("batch search failed", "tracks", len(req.Tracks), "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"cancelled": result.Cancelled,
		"results":   result.Results,
		"summary": map[string]int{
			"total":      result.Total,
			"successful": result.Matched,
			"failed":     result.Failed,
		},
	})
}

// ConversionHandler serves the conversion job lifecycle.
type ConversionHandler struct {
	jobs   *repositories.JobRepository
	logger *log.Logger
}

// NewConversionHandler creates a ConversionHandler over the job store.
func NewConversionHandler(jobs *repositories.JobRepository, logger *log.Logger) *ConversionHandler {
	return &ConversionHandler{jobs: jobs, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ConversionHandler) Routes() []string {
	return []string{
		"POST /start-conversion",
		"GET /conversion-status/{id}",
		"POST /cancel-conversion/{id}",
	}
}

func (h *ConversionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/start-conversion":
		h.start(w, r)
	case r.PathValue("id") != "" && r.Method == http.MethodGet:
		h.status(w, r)
	case r.PathValue("id") != "":
		h.cancel(w, r)
	default:
		respondError(w, http.StatusNotFound, "not found")
	}
}

func (h *ConversionHandler) start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpotifyURL    string `json:"spotifyUrl"`
		PlaylistTitle string `json:"playlistTitle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.SpotifyURL == "" {
		respondError(w, http.StatusBadRequest, "spotifyUrl is required")
		return
	}

	job := models.NewConversionJob(0, req.SpotifyURL, req.PlaylistTitle)
	if err := h.jobs.Create(job); err != nil {
		h.logger.Error("failed to create conversion job", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to start conversion")
		return
	}

	h.logger.Info("conversion started", "id", job.ID(), "source", req.SpotifyURL)

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"conversionId": job.ID(),
		"message":      "conversion started",
	})
}

func (h *ConversionHandler) status(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "conversion not found")
		return
	}

	conversion := map[string]any{
		"id":            job.ID(),
		"spotifyUrl":    job.SourceURL(),
		"playlistTitle": job.PlaylistTitle(),
		"status":        job.Status(),
		"progress":      job.Progress(),
		"createdAt":     job.CreatedAt().UTC().Format(time.RFC3339),
		"updatedAt":     job.UpdatedAt().UTC().Format(time.RFC3339),
	}
	if job.Result() != "" {
		conversion["result"] = json.RawMessage(job.Result())
	}
	if job.ErrorMessage() != "" {
		conversion["error"] = job.ErrorMessage()
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"conversion": conversion,
	})
}

func (h *ConversionHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch err := h.jobs.Cancel(id); {
	case errors.Is(err, shared.ErrJobNotFound):
		respondError(w, http.StatusNotFound, "conversion not found")
	case errors.Is(err, shared.ErrJobTerminal):
		respondError(w, http.StatusBadRequest, "conversion already finished")
	case err != nil:
		h.logger.Error("failed to cancel conversion", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to cancel conversion")
	default:
		h.logger.Info("conversion cancelled", "id", id)
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "conversion cancelled",
		})
	}
}

// PlaylistHandler serves playlist creation and item appends.
type PlaylistHandler struct {
	catalog services.Catalog
	jobs    *repositories.JobRepository
	logger  *log.Logger
}

// NewPlaylistHandler creates a PlaylistHandler.
//
// jobs may be nil when playlist requests never reference conversion jobs.
func NewPlaylistHandler(catalog services.Catalog, jobs *repositories.JobRepository, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{catalog: catalog, jobs: jobs, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"POST /create-playlist",
		"POST /add-to-playlist",
		"POST /add-batch-to-playlist",
	}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/create-playlist":
		h.create(w, r)
	case "/add-to-playlist":
		h.addOne(w, r)
	case "/add-batch-to-playlist":
		h.addBatch(w, r)
	default:
		respondError(w, http.StatusNotFound, "not found")
	}
}

func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Privacy      string `json:"privacy"`
		ConversionID string `json:"conversionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	// A cancelled conversion must not produce a playlist.
	if req.ConversionID != "" && h.jobs != nil {
		job, err := h.jobs.Get(req.ConversionID)
		if err != nil {
			respondError(w, http.StatusNotFound, "conversion not found")
			return
		}
		if job.Status() == models.JobCancelled {
			respondJSON(w, http.StatusConflict, map[string]any{
				"success":   false,
				"cancelled": true,
				"error":     "conversion was cancelled",
			})
			return
		}
	}

	playlistID, err := h.catalog.CreatePlaylist(r.Context(), req.Title, req.Description, req.Privacy)
	if err != nil {
		h.logger.Error("failed to create playlist", "title", req.Title, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("playlist created", "id", playlistID, "title", req.Title)

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"playlist": map[string]string{
			"playlistId":  playlistID,
			"title":       req.Title,
			"description": req.Description,
			"url":         fmt.Sprintf("https://music.youtube.com/playlist?list=%s", playlistID),
		},
	})
}

func (h *PlaylistHandler) addOne(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlaylistID string `json:"playlistId"`
		VideoID    string `json:"videoId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.PlaylistID == "" || req.VideoID == "" {
		respondError(w, http.StatusBadRequest, "playlistId and videoId are required")
		return
	}

	if err := h.catalog.AddPlaylistItems(r.Context(), req.PlaylistID, []string{req.VideoID}); err != nil {
		h.logger.Error("failed to add track", "playlist", req.PlaylistID, "video", req.VideoID, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "track added to playlist",
	})
}

func (h *PlaylistHandler) addBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlaylistID string   `json:"playlistId"`
		VideoIDs   []string `json:"videoIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.PlaylistID == "" || len(req.VideoIDs) == 0 {
		respondError(w, http.StatusBadRequest, "playlistId and videoIds are required")
		return
	}

	if err := h.catalog.AddPlaylistItems(r.Context(), req.PlaylistID, req.VideoIDs); err != nil {
		h.logger.Error("failed to add tracks", "playlist", req.PlaylistID, "count", len(req.VideoIDs), "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("added %d tracks to playlist", len(req.VideoIDs)),
	})
}
