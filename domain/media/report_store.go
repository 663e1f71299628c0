package media

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrReportNotFound is returned when no stored report matches the given id
var ErrReportNotFound = errors.New("report not found")

// ReportRecord is a stored probe result: a summary row plus the full report
type ReportRecord struct {
	ID              uuid.UUID
	Source          string
	Container       string
	DurationSeconds float64
	StreamCount     int
	AudioStreams    int
	VideoStreams    int
	HasAudio        bool
	HasVideo        bool
	Report          *Report
	CreatedAt       time.Time
}

// NewReportRecord builds a record from a probe result, computing the
// summary columns from the report
func NewReportRecord(src Source, report *Report) *ReportRecord {
	return &ReportRecord{
		ID:              uuid.New(),
		Source:          src.String(),
		Container:       report.Format.FormatName,
		DurationSeconds: report.DurationSeconds(),
		StreamCount:     len(report.Streams),
		AudioStreams:    len(report.AudioStreams()),
		VideoStreams:    len(report.VideoStreams()),
		HasAudio:        report.HasAudio(),
		HasVideo:        report.HasVideo(),
		Report:          report,
		CreatedAt:       time.Now().UTC(),
	}
}

// ReportStore persists probe history
// This is a port implemented by the storage layer
type ReportStore interface {
	// SaveReport stores a probe record
	SaveReport(ctx context.Context, rec *ReportRecord) error

	// GetReport fetches a record by id; returns ErrReportNotFound when absent
	GetReport(ctx context.Context, id uuid.UUID) (*ReportRecord, error)

	// ListReports returns the most recent records, newest first
	ListReports(ctx context.Context, limit int) ([]*ReportRecord, error)
}
