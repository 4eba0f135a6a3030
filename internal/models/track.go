package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Track is a title/artist pair from a playlist export, used as a search query.
//
// Artist may hold multiple names joined by commas ("Queen, David Bowie").
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Artist is one artist credit on a catalog search result.
//
// The catalog sometimes returns bare strings instead of structured records, so
// UnmarshalJSON accepts both shapes.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

func (a *Artist) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Name = s
		return nil
	}

	type artistRecord Artist
	var rec artistRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("artist entry is neither string nor record: %w", err)
	}
	*a = Artist(rec)
	return nil
}

// Candidate is one search result from the YouTube Music catalog.
type Candidate struct {
	VideoID  string   `json:"videoId"`
	Title    string   `json:"title"`
	Artists  []Artist `json:"artists"`
	Duration string   `json:"duration"`
}

// ArtistNames returns the non-empty artist names on the candidate, in order.
func (c *Candidate) ArtistNames() []string {
	names := make([]string, 0, len(c.Artists))
	for _, a := range c.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

// JoinedArtists returns the candidate's artist names as a comma-joined string.
func (c *Candidate) JoinedArtists() string {
	return strings.Join(c.ArtistNames(), ", ")
}

// PersistedTrack is a database-backed record of an accepted catalog match.
//
// Tracks are cached on every accepted match so repeat conversions of the same
// playlist skip the scoring pass via a videoId lookup.
type PersistedTrack struct {
	id        string
	sequence  int
	service   string
	serviceID string
	title     string
	artist    string
	duration  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedTrack creates a PersistedTrack for the given service and catalog ID.
func NewPersistedTrack(sequence int, service, serviceID, title, artist, duration string) *PersistedTrack {
	now := time.Now()
	return &PersistedTrack{
		sequence:  sequence,
		service:   service,
		serviceID: serviceID,
		title:     title,
		artist:    artist,
		duration:  duration,
		createdAt: now,
		updatedAt: now,
	}
}

func (t *PersistedTrack) ID() string            { return t.id }
func (t *PersistedTrack) Sequence() int         { return t.sequence }
func (t *PersistedTrack) Service() string       { return t.service }
func (t *PersistedTrack) ServiceID() string     { return t.serviceID }
func (t *PersistedTrack) Title() string         { return t.title }
func (t *PersistedTrack) Artist() string        { return t.artist }
func (t *PersistedTrack) Duration() string      { return t.duration }
func (t *PersistedTrack) CreatedAt() time.Time  { return t.createdAt }
func (t *PersistedTrack) UpdatedAt() time.Time  { return t.updatedAt }
func (t *PersistedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *PersistedTrack) SetID(id string)            { t.id = id }
func (t *PersistedTrack) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }
func (t *PersistedTrack) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }

// Validate checks that the track has a service, catalog ID, and title.
func (t *PersistedTrack) Validate() error {
	if t.service == "" {
		return fmt.Errorf("track service is required")
	}
	if t.serviceID == "" {
		return fmt.Errorf("track service_id is required")
	}
	if t.title == "" {
		return fmt.Errorf("track title is required")
	}
	return nil
}
