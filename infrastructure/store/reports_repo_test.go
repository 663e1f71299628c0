package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

func sampleRecord(t *testing.T, source string) *media.ReportRecord {
	t.Helper()

	src, err := media.NewSource(source)
	if err != nil {
		t.Fatalf("NewSource(%q) error: %v", source, err)
	}

	report := &media.Report{
		Streams: []media.Stream{
			{Index: 0, CodecName: "h264", CodecType: media.StreamTypeVideo, Width: 1920, Height: 1080},
			{Index: 1, CodecName: "aac", CodecType: media.StreamTypeAudio, Channels: 2},
		},
		Format: media.Format{
			FormatName: "mov,mp4,m4a,3gp,3g2,mj2",
			Duration:   "120.064000",
			Size:       "92857600",
		},
	}
	return media.NewReportRecord(src, report)
}

func TestStore_SaveAndGetReport(t *testing.T) {
	s := setupTestStore(t)

	rec := sampleRecord(t, "/videos/session.mp4")
	if err := s.SaveReport(context.Background(), rec); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	got, err := s.GetReport(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}

	if got.Source != "/videos/session.mp4" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Container != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Errorf("Container = %q", got.Container)
	}
	if got.DurationSeconds != 120.064 {
		t.Errorf("DurationSeconds = %v", got.DurationSeconds)
	}
	if !got.HasAudio || !got.HasVideo {
		t.Error("expected audio and video flags to round-trip")
	}
	if got.StreamCount != 2 || got.AudioStreams != 1 || got.VideoStreams != 1 {
		t.Errorf("counts = %d/%d/%d", got.StreamCount, got.AudioStreams, got.VideoStreams)
	}

	// The full report document rides along
	if got.Report == nil {
		t.Fatal("expected the stored report document")
	}
	if len(got.Report.Streams) != 2 {
		t.Errorf("stored report has %d streams", len(got.Report.Streams))
	}
	if got.Report.Streams[0].Width != 1920 {
		t.Errorf("stream detail lost: %+v", got.Report.Streams[0])
	}
}

func TestStore_GetReport_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetReport(context.Background(), uuid.New())
	if !errors.Is(err, media.ErrReportNotFound) {
		t.Errorf("GetReport() error = %v, want ErrReportNotFound", err)
	}
}

func TestStore_ListReports(t *testing.T) {
	s := setupTestStore(t)

	older := sampleRecord(t, "/videos/a.mp4")
	older.CreatedAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := s.SaveReport(context.Background(), older); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	newer := sampleRecord(t, "/videos/b.mp4")
	newer.CreatedAt = time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	if err := s.SaveReport(context.Background(), newer); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	records, err := s.ListReports(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Source != "/videos/b.mp4" {
		t.Errorf("newest first expected, got %q", records[0].Source)
	}

	limited, err := s.ListReports(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d records with limit 1", len(limited))
	}
}
