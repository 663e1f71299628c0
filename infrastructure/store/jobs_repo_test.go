package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shailu9/MediaInfoApi/domain/job"
)

func jobFilterNone() job.Filter {
	return job.Filter{}
}

func insertJob(t *testing.T, s *Store, j *job.Job) {
	t.Helper()
	if err := s.Insert(context.Background(), j); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}

func TestStore_InsertAndGetJob(t *testing.T) {
	s := setupTestStore(t)

	j := job.New(job.KindTrim, "/videos/session.mp4",
		json.RawMessage(`{"start":"00:01:00","end":"00:02:00"}`))
	insertJob(t, s, j)

	got, err := s.Get(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.ID != j.ID {
		t.Errorf("ID = %s, want %s", got.ID, j.ID)
	}
	if got.Kind != job.KindTrim {
		t.Errorf("Kind = %q, want %q", got.Kind, job.KindTrim)
	}
	if got.Source != "/videos/session.mp4" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Status != job.StatusQueued {
		t.Errorf("Status = %q, want queued", got.Status)
	}
	if string(got.Params) != `{"start":"00:01:00","end":"00:02:00"}` {
		t.Errorf("Params = %s", got.Params)
	}
	if got.StartedAt != nil || got.FinishedAt != nil {
		t.Error("timing fields should round-trip as nil")
	}
}

func TestStore_GetJob_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get(context.Background(), uuid.New())
	if !errors.Is(err, job.ErrJobNotFound) {
		t.Errorf("Get() error = %v, want ErrJobNotFound", err)
	}
}

func TestStore_UpdateJob(t *testing.T) {
	s := setupTestStore(t)

	j := job.New(job.KindProbe, "/videos/session.mp4", nil)
	insertJob(t, s, j)

	if err := j.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := j.Succeed(json.RawMessage(`{"has_audio":true}`)); err != nil {
		t.Fatalf("Succeed() error = %v", err)
	}
	j.ArtifactPath = "/artifacts/out.mp3"
	j.ArchiveURL = "https://drive.google.com/file/d/abc/view"

	if err := s.Update(context.Background(), j); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.Get(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != job.StatusSucceeded {
		t.Errorf("Status = %q, want succeeded", got.Status)
	}
	if string(got.Result) != `{"has_audio":true}` {
		t.Errorf("Result = %s", got.Result)
	}
	if got.ArtifactPath != "/artifacts/out.mp3" {
		t.Errorf("ArtifactPath = %q", got.ArtifactPath)
	}
	if got.ArchiveURL != "https://drive.google.com/file/d/abc/view" {
		t.Errorf("ArchiveURL = %q", got.ArchiveURL)
	}
	if got.StartedAt == nil || got.FinishedAt == nil {
		t.Error("timing fields should round-trip as set")
	}
}

func TestStore_UpdateJob_NotFound(t *testing.T) {
	s := setupTestStore(t)

	j := job.New(job.KindProbe, "/videos/session.mp4", nil)
	if err := s.Update(context.Background(), j); !errors.Is(err, job.ErrJobNotFound) {
		t.Errorf("Update() error = %v, want ErrJobNotFound", err)
	}
}

func TestStore_ListJobs(t *testing.T) {
	s := setupTestStore(t)

	first := job.New(job.KindProbe, "/a.mp4", nil)
	first.CreatedAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	insertJob(t, s, first)

	second := job.New(job.KindTrim, "/b.mp4", nil)
	second.CreatedAt = time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)
	if err := second.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	insertJob(t, s, second)

	third := job.New(job.KindTrim, "/c.mp4", nil)
	third.CreatedAt = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	insertJob(t, s, third)

	t.Run("newest first", func(t *testing.T) {
		jobs, err := s.List(context.Background(), job.Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(jobs) != 3 {
			t.Fatalf("got %d jobs, want 3", len(jobs))
		}
		if jobs[0].ID != third.ID || jobs[2].ID != first.ID {
			t.Errorf("unexpected order: %s, %s, %s", jobs[0].ID, jobs[1].ID, jobs[2].ID)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		jobs, err := s.List(context.Background(), job.Filter{Status: job.StatusRunning})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(jobs) != 1 || jobs[0].ID != second.ID {
			t.Errorf("jobs = %+v", jobs)
		}
	})

	t.Run("filter by kind", func(t *testing.T) {
		jobs, err := s.List(context.Background(), job.Filter{Kind: job.KindTrim})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("got %d jobs, want 2", len(jobs))
		}
	})

	t.Run("limit", func(t *testing.T) {
		jobs, err := s.List(context.Background(), job.Filter{Limit: 1})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(jobs) != 1 || jobs[0].ID != third.ID {
			t.Errorf("jobs = %+v", jobs)
		}
	})
}

func TestStore_FailUnfinished(t *testing.T) {
	s := setupTestStore(t)

	queued := job.New(job.KindProbe, "/a.mp4", nil)
	insertJob(t, s, queued)

	running := job.New(job.KindTrim, "/b.mp4", nil)
	if err := running.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	insertJob(t, s, running)

	done := job.New(job.KindProbe, "/c.mp4", nil)
	if err := done.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := done.Succeed(nil); err != nil {
		t.Fatalf("Succeed() error = %v", err)
	}
	insertJob(t, s, done)

	n, err := s.FailUnfinished(context.Background(), "service restarted")
	if err != nil {
		t.Fatalf("FailUnfinished() error = %v", err)
	}
	if n != 2 {
		t.Errorf("FailUnfinished() = %d rows, want 2", n)
	}

	for _, id := range []uuid.UUID{queued.ID, running.ID} {
		got, err := s.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status != job.StatusFailed {
			t.Errorf("job %s status = %q, want failed", id, got.Status)
		}
		if got.Error != "service restarted" {
			t.Errorf("job %s error = %q", id, got.Error)
		}
		if got.FinishedAt == nil {
			t.Errorf("job %s should have a finish time", id)
		}
	}

	got, err := s.Get(context.Background(), done.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != job.StatusSucceeded {
		t.Errorf("terminal job status = %q, want untouched", got.Status)
	}
}
