package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// ProbeService is the slice of the probe application the API needs
type ProbeService interface {
	Probe(ctx context.Context, source string) (*media.ReportRecord, error)
	Report(ctx context.Context, id uuid.UUID) (*media.ReportRecord, error)
	Reports(ctx context.Context, limit int) ([]*media.ReportRecord, error)
}

const defaultReportLimit = 20

type probeRequest struct {
	URL string `json:"url"`
}

type probeResponse struct {
	ReportID string        `json:"report_id"`
	Source   string        `json:"source"`
	Report   *media.Report `json:"report"`
}

type probeFailure struct {
	Detail string `json:"detail"`
	Stderr string `json:"stderr"`
}

// Probe runs ffprobe against a source and answers the full report
func Probe(svc ProbeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req probeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		rec, err := svc.Probe(r.Context(), req.URL)
		if err != nil {
			var perr *media.ProbeError
			switch {
			case errors.As(err, &perr):
				writeJSON(w, r, http.StatusUnprocessableEntity, probeFailure{
					Detail: perr.Error(),
					Stderr: perr.Stderr,
				})
			case errors.Is(err, media.ErrEmptySource),
				errors.Is(err, media.ErrUnsupportedScheme),
				errors.Is(err, media.ErrSourceNotFound):
				writeError(w, r, http.StatusBadRequest, err.Error())
			default:
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("probe failed")
				writeError(w, r, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, r, http.StatusOK, probeResponse{
			ReportID: rec.ID.String(),
			Source:   rec.Source,
			Report:   rec.Report,
		})
	}
}

type reportSummary struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	Container       string    `json:"container"`
	DurationSeconds float64   `json:"duration_seconds"`
	StreamCount     int       `json:"stream_count"`
	AudioStreams    int       `json:"audio_streams"`
	VideoStreams    int       `json:"video_streams"`
	HasAudio        bool      `json:"has_audio"`
	HasVideo        bool      `json:"has_video"`
	CreatedAt       time.Time `json:"created_at"`
}

type reportDetail struct {
	reportSummary
	Report *media.Report `json:"report"`
}

func newReportSummary(rec *media.ReportRecord) reportSummary {
	return reportSummary{
		ID:              rec.ID.String(),
		Source:          rec.Source,
		Container:       rec.Container,
		DurationSeconds: rec.DurationSeconds,
		StreamCount:     rec.StreamCount,
		AudioStreams:    rec.AudioStreams,
		VideoStreams:    rec.VideoStreams,
		HasAudio:        rec.HasAudio,
		HasVideo:        rec.HasVideo,
		CreatedAt:       rec.CreatedAt,
	}
}

// ListReports answers recent probe reports as summary rows, newest first
func ListReports(svc ProbeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultReportLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
				return
			}
			limit = n
		}

		recs, err := svc.Reports(r.Context(), limit)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to list reports")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]reportSummary, 0, len(recs))
		for _, rec := range recs {
			out = append(out, newReportSummary(rec))
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

// GetReport answers a stored probe report with its raw ffprobe payload
func GetReport(svc ProbeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := mux.Vars(r)["report_id"]
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid report id %q", raw))
			return
		}

		rec, err := svc.Report(r.Context(), id)
		if err != nil {
			if errors.Is(err, media.ErrReportNotFound) {
				writeError(w, r, http.StatusNotFound, "report not found")
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load report")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, r, http.StatusOK, reportDetail{
			reportSummary: newReportSummary(rec),
			Report:        rec.Report,
		})
	}
}
