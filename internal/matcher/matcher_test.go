package matcher

import (
	"sync"
	"testing"

	"tunebridge/internal/models"
)

func candidate(videoID, title string, artistNames ...string) models.Candidate {
	artists := make([]models.Artist, len(artistNames))
	for i, n := range artistNames {
		artists[i] = models.Artist{Name: n}
	}
	return models.Candidate{VideoID: videoID, Title: title, Artists: artists, Duration: "3:33"}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TitleWeight != 0.75 || cfg.ArtistWeight != 0.25 {
		t.Errorf("unexpected weights: %v/%v", cfg.TitleWeight, cfg.ArtistWeight)
	}
	if cfg.ExactTitleBonus != 0.10 {
		t.Errorf("unexpected bonus: %v", cfg.ExactTitleBonus)
	}
	if cfg.Threshold != 0.30 {
		t.Errorf("unexpected threshold: %v", cfg.Threshold)
	}
}

func TestFindBestMatch(t *testing.T) {
	m := New(DefaultConfig())

	tc := []struct {
		name       string
		query      Query
		candidates []models.Candidate
		wantID     string // empty means no match
	}{
		{
			name:       "empty candidate list",
			query:      Query{Title: "Yesterday", Artist: "The Beatles"},
			candidates: nil,
			wantID:     "",
		},
		{
			name:  "empty query title",
			query: Query{Title: "", Artist: "Queen"},
			candidates: []models.Candidate{
				candidate("v1", "Bohemian Rhapsody", "Queen"),
			},
			wantID: "",
		},
		{
			name:  "whitespace query title",
			query: Query{Title: "   ", Artist: "Queen"},
			candidates: []models.Candidate{
				candidate("v1", "Bohemian Rhapsody", "Queen"),
			},
			wantID: "",
		},
		{
			name:  "exact match",
			query: Query{Title: "Bohemian Rhapsody", Artist: "Queen"},
			candidates: []models.Candidate{
				candidate("v1", "Bohemian Rhapsody", "Queen"),
			},
			wantID: "v1",
		},
		{
			name:  "exact title bonus breaks near tie",
			query: Query{Title: "Bohemian Rhapsody", Artist: "Queen"},
			candidates: []models.Candidate{
				candidate("v1", "Bohemian Rhapsody", "Queen"),
				candidate("v2", "Bohemian Rhapsody (Live)", "Queen"),
			},
			wantID: "v1",
		},
		{
			name:  "bonus applies across case and punctuation",
			query: Query{Title: "Yesterday", Artist: "The Beatles"},
			candidates: []models.Candidate{
				candidate("v1", "yesterday.", "Unrelated Artist"),
			},
			wantID: "v1",
		},
		{
			name:  "multi-artist query uses best pairwise score",
			query: Query{Title: "Under Pressure", Artist: "Queen, David Bowie"},
			candidates: []models.Candidate{
				candidate("v1", "Under Pressure", "Somebody Else"),
				candidate("v2", "Under Pressure", "David Bowie"),
			},
			wantID: "v2",
		},
		{
			name:  "candidates with empty titles are skipped",
			query: Query{Title: "Under Pressure", Artist: "Queen"},
			candidates: []models.Candidate{
				candidate("v1", "", "Queen"),
				candidate("v2", "Under Pressure", "Queen"),
			},
			wantID: "v2",
		},
		{
			name:  "all candidates malformed",
			query: Query{Title: "Under Pressure", Artist: "Queen"},
			candidates: []models.Candidate{
				candidate("v1", ""),
				candidate("v2", ""),
			},
			wantID: "",
		},
		{
			name:  "candidate without artists still scores on title",
			query: Query{Title: "Bohemian Rhapsody", Artist: "Queen"},
			candidates: []models.Candidate{
				{VideoID: "v1", Title: "Bohemian Rhapsody"},
			},
			wantID: "v1",
		},
		{
			name:  "nothing above threshold",
			query: Query{Title: "Stairway to Heaven", Artist: "Led Zeppelin"},
			candidates: []models.Candidate{
				candidate("v1", "qqq", "zzz"),
			},
			wantID: "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindBestMatch(tt.query, tt.candidates)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("FindBestMatch() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("FindBestMatch() = nil, want candidate %s", tt.wantID)
			}
			if got.VideoID != tt.wantID {
				t.Errorf("FindBestMatch() picked %s, want %s", got.VideoID, tt.wantID)
			}
		})
	}
}

// Result references the input slice rather than a copy.
func TestFindBestMatchReturnsInputReference(t *testing.T) {
	m := New(DefaultConfig())
	candidates := []models.Candidate{
		candidate("v1", "Bohemian Rhapsody", "Queen"),
	}

	got := m.FindBestMatch(Query{Title: "Bohemian Rhapsody", Artist: "Queen"}, candidates)
	if got != &candidates[0] {
		t.Error("expected result to point into the candidate slice")
	}
}

func TestFindBestMatchTieKeepsFirst(t *testing.T) {
	m := New(DefaultConfig())
	candidates := []models.Candidate{
		candidate("first", "Under Pressure", "Queen"),
		candidate("second", "Under Pressure", "Queen"),
	}

	got := m.FindBestMatch(Query{Title: "Under Pressure", Artist: "Queen"}, candidates)
	if got == nil || got.VideoID != "first" {
		t.Errorf("tie should keep earliest candidate, got %v", got)
	}
}

func TestFindBestMatchThresholdBoundary(t *testing.T) {
	// Exactly-representable constants so the boundary comparison is not a
	// float coin toss.
	cfg := Config{TitleWeight: 0.5, ArtistWeight: 0.5, ExactTitleBonus: 0, Threshold: 0.5}
	m := New(cfg)

	t.Run("score equal to threshold is accepted", func(t *testing.T) {
		// titleScore 1.0, artistScore 0.0 → combined exactly 0.5.
		candidates := []models.Candidate{candidate("v1", "Same Title", "zzzz")}
		got := m.FindBestMatch(Query{Title: "Same Title", Artist: "qqqq"}, candidates)
		if got == nil {
			t.Error("combined score equal to threshold should be accepted")
		}
	})

	t.Run("score below threshold is rejected", func(t *testing.T) {
		candidates := []models.Candidate{candidate("v1", "qqq", "zzzz")}
		got := m.FindBestMatch(Query{Title: "Same Title", Artist: "qqqq"}, candidates)
		if got != nil {
			t.Errorf("expected nil below threshold, got %v", got)
		}
	})
}

// The exact-title bonus can lift an otherwise rejected title-only match over
// the acceptance threshold.
func TestExactTitleBonusLiftsOverThreshold(t *testing.T) {
	query := Query{Title: "Yesterday", Artist: "The Beatles"}
	candidates := []models.Candidate{candidate("v1", "yesterday", "Unrelated")}

	withBonus := New(Config{TitleWeight: 0.25, ArtistWeight: 0.75, ExactTitleBonus: 0.10, Threshold: 0.30})
	if got := withBonus.FindBestMatch(query, candidates); got == nil {
		t.Error("bonus should lift exact-title match over threshold")
	}

	withoutBonus := New(Config{TitleWeight: 0.25, ArtistWeight: 0.75, ExactTitleBonus: 0, Threshold: 0.30})
	if got := withoutBonus.FindBestMatch(query, candidates); got != nil {
		t.Errorf("without bonus the match should fall short, got %v", got)
	}
}

func TestSplitArtists(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single", input: "Queen", want: []string{"Queen"}},
		{name: "multiple", input: "Queen, David Bowie", want: []string{"Queen", "David Bowie"}},
		{name: "extra whitespace", input: " Queen ,  David Bowie ", want: []string{"Queen", "David Bowie"}},
		{name: "empty segments dropped", input: "Queen,,", want: []string{"Queen"}},
		{name: "empty string", input: "", want: []string{}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArtists(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitArtists(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitArtists(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindBestMatchConcurrent(t *testing.T) {
	m := New(DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			candidates := []models.Candidate{
				candidate("v1", "Bohemian Rhapsody", "Queen"),
				candidate("v2", "Bohemian Rhapsody (Live)", "Queen"),
			}
			got := m.FindBestMatch(Query{Title: "Bohemian Rhapsody", Artist: "Queen"}, candidates)
			if got == nil || got.VideoID != "v1" {
				t.Errorf("concurrent match picked %v", got)
			}
		}()
	}
	wg.Wait()
}
