package matcher

import (
	"strings"

	"tunebridge/internal/models"
)

// Query is the track being searched for. Artist may contain several names
// joined by commas; it is treated as a set of candidate artist names.
type Query struct {
	Title  string
	Artist string
}

// Config holds the scoring constants. They are tuning knobs, not invariants;
// deployments adjust them through the [matcher] config section.
type Config struct {
	TitleWeight     float64 `toml:"title_weight"`
	ArtistWeight    float64 `toml:"artist_weight"`
	ExactTitleBonus float64 `toml:"exact_title_bonus"`
	Threshold       float64 `toml:"threshold"`
}

// DefaultConfig returns the production scoring constants: title-heavy
// weighting, a flat bonus for normalized-exact titles, and a permissive
// acceptance threshold.
func DefaultConfig() Config {
	return Config{
		TitleWeight:     0.75,
		ArtistWeight:    0.25,
		ExactTitleBonus: 0.10,
		Threshold:       0.30,
	}
}

// Matcher scores catalog candidates against queries. Zero-cost to share
// across goroutines.
type Matcher struct {
	cfg Config
}

// New creates a Matcher with the given scoring config.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the matcher's scoring constants.
func (m *Matcher) Config() Config {
	return m.cfg
}

// FindBestMatch returns the candidate that best represents the query, or nil
// when no candidate reaches the acceptance threshold.
//
// Candidates are scanned in input order; each gets a combined score of
// weighted title and artist similarity, plus the exact-title bonus when the
// normalized titles are equal (the bonus can push a score past 1.0, which
// only affects ranking). Ties keep the earliest candidate since later ones
// replace the tracked best on strict improvement only. Candidates with an
// empty title are skipped rather than failing the scan.
//
// The returned pointer references an element of the input slice.
func (m *Matcher) FindBestMatch(q Query, candidates []models.Candidate) *models.Candidate {
	if strings.TrimSpace(q.Title) == "" || len(candidates) == 0 {
		return nil
	}

	queryTitle := Normalize(q.Title)
	queryArtists := SplitArtists(q.Artist)

	var best *models.Candidate
	bestScore := 0.0

	for i := range candidates {
		c := &candidates[i]
		if c.Title == "" {
			continue
		}

		titleScore := Similarity(q.Title, c.Title)
		artistScore := m.artistScore(q.Artist, queryArtists, c)

		score := m.cfg.TitleWeight*titleScore + m.cfg.ArtistWeight*artistScore
		if Normalize(c.Title) == queryTitle {
			score += m.cfg.ExactTitleBonus
		}

		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}

	if best == nil || bestScore < m.cfg.Threshold {
		return nil
	}
	return best
}

// artistScore is the best similarity over every query-artist × candidate-artist
// pair, and additionally the joined candidate credits against the raw query
// artist string. The joined comparison catches credits the pairwise split
// mangles ("Simon & Garfunkel" exported as one name, credited as two).
func (m *Matcher) artistScore(rawQueryArtist string, queryArtists []string, c *models.Candidate) float64 {
	names := c.ArtistNames()
	if len(names) == 0 {
		return 0.0
	}

	score := 0.0
	if rawQueryArtist != "" {
		score = Similarity(rawQueryArtist, strings.Join(names, ", "))
	}

	for _, name := range names {
		for _, qa := range queryArtists {
			if s := Similarity(qa, name); s > score {
				score = s
			}
		}
	}

	return score
}

// SplitArtists splits a comma-joined artist string into trimmed, non-empty
// names.
func SplitArtists(artist string) []string {
	parts := strings.Split(artist, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
