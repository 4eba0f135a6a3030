// YouTube Music API [Catalog] implementation
//
// Communicates with a ytmusicapi proxy server, by default on port 8080.
// The proxy wraps the YouTube Music private API behind REST endpoints.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"tunebridge/internal/models"
	"tunebridge/internal/shared"
)

const defaultBaseURL string = "http://localhost:8080"

// YouTubeMusicService implements the Catalog interface for YouTube Music via proxy.
type YouTubeMusicService struct {
	baseURL     string
	tokens      *TokenStore
	headersFile string
	httpClient  *http.Client
}

// NewYouTubeMusicService creates a new YouTube Music catalog instance.
//
// tokens may be nil when a browser headers file is used instead of OAuth.
func NewYouTubeMusicService(baseURL string, tokens *TokenStore) *YouTubeMusicService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &YouTubeMusicService{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: http.DefaultClient,
	}
}

// Name returns the catalog name.
func (y *YouTubeMusicService) Name() string {
	return "YouTube Music"
}

// SetHeadersFile configures a browser headers file path sent via the
// X-Auth-File header, the proxy's fallback when no OAuth token exists.
func (y *YouTubeMusicService) SetHeadersFile(path string) {
	y.headersFile = path
}

func (y *YouTubeMusicService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := y.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.tokens != nil {
		token, err := y.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if y.headersFile != "" {
		req.Header.Set("X-Auth-File", y.headersFile)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("youtube music API error (status %d): %s", resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("youtube music API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search queries the catalog for songs matching the free-text query.
//
// Calls GET /api/search?q={query}&filter=songs&limit={limit} on the proxy.
func (y *YouTubeMusicService) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = 10
	}

	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs&limit=%d", url.QueryEscape(query), limit)

	var results []models.Candidate
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &results); err != nil {
		return nil, err
	}

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// CreatePlaylist creates a playlist and returns its ID.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeMusicService) CreatePlaylist(ctx context.Context, title, description, privacy string) (string, error) {
	if privacy == "" {
		privacy = "PRIVATE"
	}

	createReq := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         title,
		Description:   description,
		PrivacyStatus: privacy,
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	if createResp.PlaylistID == "" {
		return "", fmt.Errorf("%w: proxy returned no playlist ID", shared.ErrPlaylistCreate)
	}

	return createResp.PlaylistID, nil
}

// AddPlaylistItems appends the given video IDs to an existing playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy. A no-op for an empty batch.
func (y *YouTubeMusicService) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}

	addReq := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: videoIDs,
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	return y.doRequest(ctx, http.MethodPost, endpoint, addReq, nil)
}

// Health reports whether the proxy is reachable.
//
// Calls GET /api/health on the proxy.
func (y *YouTubeMusicService) Health(ctx context.Context) error {
	return y.doRequest(ctx, http.MethodGet, "/api/health", nil, nil)
}
