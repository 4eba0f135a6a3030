package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"tunebridge/internal/models"
	"tunebridge/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "jobs")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	second, err := NextSequence(db, "jobs")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected sequence to increment from %d, got %d", first, second)
	}
}

func TestJobRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "Road Trip")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if job.ID() == "" {
			t.Error("job ID should be set after creation")
		}
		if job.Sequence() == 0 {
			t.Error("job sequence should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "Road Trip")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.SourceURL() != job.SourceURL() {
			t.Errorf("expected source URL %s, got %s", job.SourceURL(), retrieved.SourceURL())
		}
		if retrieved.Status() != models.JobStarted {
			t.Errorf("expected status started, got %s", retrieved.Status())
		}
		if retrieved.PlaylistTitle() != "Road Trip" {
			t.Errorf("expected playlist title Road Trip, got %s", retrieved.PlaylistTitle())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if err := job.SetStatus(models.JobProcessing); err != nil {
			t.Fatalf("failed to set status: %v", err)
		}
		job.SetProgress(40)

		if err := repo.Update(job); err != nil {
			t.Fatalf("failed to update job: %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.Status() != models.JobProcessing {
			t.Errorf("expected status processing, got %s", retrieved.Status())
		}
		if retrieved.Progress() != 40 {
			t.Errorf("expected progress 40, got %d", retrieved.Progress())
		}
	})

	t.Run("SetProgress", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if err := repo.SetProgress(job.ID(), 25); err != nil {
			t.Fatalf("failed to set progress: %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.Progress() != 25 {
			t.Errorf("expected progress 25, got %d", retrieved.Progress())
		}
		if retrieved.Status() != models.JobProcessing {
			t.Errorf("progress write should move started job to processing, got %s", retrieved.Status())
		}
	})

	t.Run("SetProgressSkipsCancelled", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}
		if err := repo.Cancel(job.ID()); err != nil {
			t.Fatalf("failed to cancel job: %v", err)
		}

		if err := repo.SetProgress(job.ID(), 90); err != nil {
			t.Fatalf("progress write on cancelled job should be a no-op, got %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.Status() != models.JobCancelled {
			t.Errorf("expected status cancelled, got %s", retrieved.Status())
		}
		if retrieved.Progress() != 0 {
			t.Errorf("cancelled job progress should be untouched, got %d", retrieved.Progress())
		}
	})

	t.Run("Complete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		result := `{"matched":10,"failed":2}`
		if err := repo.Complete(job.ID(), result); err != nil {
			t.Fatalf("failed to complete job: %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.Status() != models.JobCompleted {
			t.Errorf("expected status completed, got %s", retrieved.Status())
		}
		if retrieved.Progress() != 100 {
			t.Errorf("expected progress 100, got %d", retrieved.Progress())
		}
		if retrieved.Result() != result {
			t.Errorf("expected result payload %s, got %s", result, retrieved.Result())
		}
	})

	t.Run("Fail", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if err := repo.Fail(job.ID(), "upstream timeout"); err != nil {
			t.Fatalf("failed to fail job: %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.Status() != models.JobFailed {
			t.Errorf("expected status failed, got %s", retrieved.Status())
		}
		if retrieved.ErrorMessage() != "upstream timeout" {
			t.Errorf("expected error message, got %s", retrieved.ErrorMessage())
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if err := repo.Cancel(job.ID()); err != nil {
			t.Fatalf("failed to cancel job: %v", err)
		}

		retrieved, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}

		if retrieved.Status() != models.JobCancelled {
			t.Errorf("expected status cancelled, got %s", retrieved.Status())
		}
	})

	t.Run("CancelCompletedJob", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}
		if err := repo.Complete(job.ID(), "{}"); err != nil {
			t.Fatalf("failed to complete job: %v", err)
		}

		err := repo.Cancel(job.ID())
		if !errors.Is(err, shared.ErrJobTerminal) {
			t.Errorf("expected ErrJobTerminal, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)
		job := models.NewConversionJob(0, "https://deezer.com/playlist/123", "")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if err := repo.Delete(job.ID()); err != nil {
			t.Fatalf("failed to delete job: %v", err)
		}

		if _, err := repo.Get(job.ID()); !errors.Is(err, shared.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound after soft delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewJobRepository(db)

		first := models.NewConversionJob(0, "https://deezer.com/playlist/1", "")
		second := models.NewConversionJob(0, "https://deezer.com/playlist/2", "")

		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}
		if err := repo.Complete(second.ID(), "{}"); err != nil {
			t.Fatalf("failed to complete job: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 jobs, got %d", len(all))
		}
		if all[0].Sequence() < all[1].Sequence() {
			t.Error("jobs should be ordered by sequence descending")
		}

		completed, err := repo.List(map[string]any{"status": string(models.JobCompleted)})
		if err != nil {
			t.Fatalf("failed to list completed jobs: %v", err)
		}
		if len(completed) != 1 || completed[0].ID() != second.ID() {
			t.Errorf("expected only the completed job, got %d jobs", len(completed))
		}
	})
}

func TestTrackRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewPersistedTrack(0, "youtube", "vid123", "Bohemian Rhapsody", "Queen", "5:55")

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if track.ID() == "" {
			t.Error("track ID should be set after creation")
		}
	})

	t.Run("GetByServiceID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewPersistedTrack(0, "youtube", "vid123", "Bohemian Rhapsody", "Queen", "5:55")

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.GetByServiceID("youtube", "vid123")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.Title() != "Bohemian Rhapsody" {
			t.Errorf("expected title Bohemian Rhapsody, got %s", retrieved.Title())
		}
		if retrieved.Artist() != "Queen" {
			t.Errorf("expected artist Queen, got %s", retrieved.Artist())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewPersistedTrack(0, "youtube", "vid123", "Bohemian Rhapsody", "Queen", "5:55")

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		updated := models.NewPersistedTrack(track.Sequence(), "youtube", "vid123", "Bohemian Rhapsody (Remastered)", "Queen", "5:54")
		updated.SetID(track.ID())

		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}

		retrieved, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.Title() != "Bohemian Rhapsody (Remastered)" {
			t.Errorf("unexpected title after update: %s", retrieved.Title())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewPersistedTrack(0, "youtube", "vid123", "Bohemian Rhapsody", "Queen", "5:55")

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if err := repo.Delete(track.ID()); err != nil {
			t.Fatalf("failed to delete track: %v", err)
		}

		if _, err := repo.Get(track.ID()); err == nil {
			t.Error("expected error when getting soft-deleted track")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)

		for i, id := range []string{"vid1", "vid2"} {
			track := models.NewPersistedTrack(0, "youtube", id, "Track", "Artist", "3:00")
			if err := repo.Create(track); err != nil {
				t.Fatalf("failed to create track %d: %v", i, err)
			}
		}

		tracks, err := repo.List(map[string]any{"service": "youtube"})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(tracks))
		}
	})
}

func TestTrackCacheAdapter(t *testing.T) {
	t.Run("CacheTrack", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		cache := NewTrackCacheAdapter(repo)

		candidate := models.Candidate{
			VideoID:  "vid123",
			Title:    "Under Pressure",
			Artists:  []models.Artist{{Name: "Queen"}, {Name: "David Bowie"}},
			Duration: "4:08",
		}

		if err := cache.CacheTrack("youtube", candidate); err != nil {
			t.Fatalf("failed to cache track: %v", err)
		}

		retrieved, err := repo.GetByServiceID("youtube", "vid123")
		if err != nil {
			t.Fatalf("failed to get cached track: %v", err)
		}

		if retrieved.Artist() != "Queen, David Bowie" {
			t.Errorf("expected joined artists, got %s", retrieved.Artist())
		}
	})

	t.Run("CacheTrackDeduplicates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		cache := NewTrackCacheAdapter(repo)

		candidate := models.Candidate{VideoID: "vid123", Title: "Under Pressure"}

		if err := cache.CacheTrack("youtube", candidate); err != nil {
			t.Fatalf("failed to cache track: %v", err)
		}
		if err := cache.CacheTrack("youtube", candidate); err != nil {
			t.Fatalf("duplicate cache should be a no-op, got %v", err)
		}

		tracks, err := repo.List(map[string]any{"service": "youtube"})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("expected 1 cached track, got %d", len(tracks))
		}
	})
}
