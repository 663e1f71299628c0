package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

var _ media.ReportStore = (*Store)(nil)

// dbReport represents a probe record as stored in the database
type dbReport struct {
	ID              uuid.UUID `db:"id"`
	Source          string    `db:"source"`
	Container       string    `db:"container"`
	DurationSeconds float64   `db:"duration_seconds"`
	StreamCount     int       `db:"stream_count"`
	AudioStreams    int       `db:"audio_streams"`
	VideoStreams    int       `db:"video_streams"`
	HasAudio        bool      `db:"has_audio"`
	HasVideo        bool      `db:"has_video"`
	Report          string    `db:"report"`
	CreatedAt       time.Time `db:"created_at"`
}

// toDomainReport converts a dbReport to a media.ReportRecord
func toDomainReport(row *dbReport) (*media.ReportRecord, error) {
	var report media.Report
	if err := json.Unmarshal([]byte(row.Report), &report); err != nil {
		return nil, fmt.Errorf("decoding stored report %s: %w", row.ID, err)
	}

	return &media.ReportRecord{
		ID:              row.ID,
		Source:          row.Source,
		Container:       row.Container,
		DurationSeconds: row.DurationSeconds,
		StreamCount:     row.StreamCount,
		AudioStreams:    row.AudioStreams,
		VideoStreams:    row.VideoStreams,
		HasAudio:        row.HasAudio,
		HasVideo:        row.HasVideo,
		Report:          &report,
		CreatedAt:       row.CreatedAt,
	}, nil
}

// fromDomainReport converts a media.ReportRecord to a dbReport
func fromDomainReport(rec *media.ReportRecord) (*dbReport, error) {
	raw, err := json.Marshal(rec.Report)
	if err != nil {
		return nil, fmt.Errorf("encoding report %s: %w", rec.ID, err)
	}

	return &dbReport{
		ID:              rec.ID,
		Source:          rec.Source,
		Container:       rec.Container,
		DurationSeconds: rec.DurationSeconds,
		StreamCount:     rec.StreamCount,
		AudioStreams:    rec.AudioStreams,
		VideoStreams:    rec.VideoStreams,
		HasAudio:        rec.HasAudio,
		HasVideo:        rec.HasVideo,
		Report:          string(raw),
		CreatedAt:       rec.CreatedAt,
	}, nil
}

// SaveReport stores a probe record
func (s *Store) SaveReport(ctx context.Context, rec *media.ReportRecord) error {
	row, err := fromDomainReport(rec)
	if err != nil {
		return err
	}

	query := `INSERT INTO reports (id, source, container, duration_seconds, stream_count, audio_streams, video_streams, has_audio, has_video, report, created_at)
	          VALUES (:id, :source, :container, :duration_seconds, :stream_count, :audio_streams, :video_streams, :has_audio, :has_video, :report, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("inserting report %s: %w", rec.ID, err)
	}
	return nil
}

// GetReport fetches a record by id
func (s *Store) GetReport(ctx context.Context, id uuid.UUID) (*media.ReportRecord, error) {
	var row dbReport
	err := s.db.GetContext(ctx, &row, `SELECT * FROM reports WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, media.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting report %s: %w", id, err)
	}
	return toDomainReport(&row)
}

// ListReports returns the most recent records, newest first
func (s *Store) ListReports(ctx context.Context, limit int) ([]*media.ReportRecord, error) {
	query := `SELECT * FROM reports ORDER BY created_at DESC, id`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []*dbReport
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	records := make([]*media.ReportRecord, len(rows))
	for i, row := range rows {
		rec, err := toDomainReport(row)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}
