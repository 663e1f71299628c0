package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	appanalysis "github.com/shailu9/MediaInfoApi/application/analysis"
	"github.com/shailu9/MediaInfoApi/domain/analysis"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// SilenceScanner runs silence detection for the API
type SilenceScanner interface {
	Scan(ctx context.Context, input appanalysis.SilenceInput) (*appanalysis.SilenceResult, error)
}

// TemplateScanner runs template detection for the API
type TemplateScanner interface {
	Scan(ctx context.Context, input appanalysis.TemplateInput) (*analysis.TemplateMatch, error)
}

type silenceRequest struct {
	URL         string  `json:"url"`
	NoiseDB     float64 `json:"noise_db"`
	MinDuration float64 `json:"min_duration"`
}

type segmentResponse struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

type silenceResponse struct {
	Source       string            `json:"source"`
	NoiseDB      float64           `json:"noise_db"`
	MinDuration  float64           `json:"min_duration"`
	Segments     []segmentResponse `json:"segments"`
	TotalSilence float64           `json:"total_silence"`
}

// AnalyzeSilence scans the source's audio track for silent stretches and
// answers them synchronously
func AnalyzeSilence(svc SilenceScanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req silenceRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := svc.Scan(r.Context(), appanalysis.SilenceInput{
			Source:      req.URL,
			NoiseDB:     req.NoiseDB,
			MinDuration: req.MinDuration,
		})
		if err != nil {
			writeScanError(w, r, err)
			return
		}

		segments := make([]segmentResponse, 0, len(res.Segments))
		for _, seg := range res.Segments {
			segments = append(segments, segmentResponse{
				Start:    seg.Start,
				End:      seg.End,
				Duration: seg.Duration(),
			})
		}

		writeJSON(w, r, http.StatusOK, silenceResponse{
			Source:       res.Source,
			NoiseDB:      res.NoiseDB,
			MinDuration:  res.MinDuration,
			Segments:     segments,
			TotalSilence: res.TotalSilence,
		})
	}
}

type templateRequest struct {
	URL            string  `json:"url"`
	Template       string  `json:"template"`
	FrameInterval  int     `json:"frame_interval"`
	MatchThreshold float64 `json:"match_threshold"`
}

type templateResponse struct {
	Found          bool    `json:"found"`
	Timestamp      string  `json:"timestamp,omitempty"`
	OffsetSeconds  float64 `json:"offset_seconds"`
	Confidence     float64 `json:"confidence"`
	FramesAnalyzed int     `json:"frames_analyzed"`
}

// AnalyzeTemplate samples frames from the source and looks for a template
// image. Builds without detection support answer 501.
func AnalyzeTemplate(svc TemplateScanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req templateRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		match, err := svc.Scan(r.Context(), appanalysis.TemplateInput{
			Source:         req.URL,
			Template:       req.Template,
			FrameInterval:  req.FrameInterval,
			MatchThreshold: req.MatchThreshold,
		})
		if err != nil {
			writeScanError(w, r, err)
			return
		}

		resp := templateResponse{
			Found:          match.Found,
			OffsetSeconds:  match.OffsetSeconds,
			Confidence:     match.Confidence,
			FramesAnalyzed: match.FramesAnalyzed,
		}
		if match.Found {
			resp.Timestamp = match.Timestamp.String()
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

// writeScanError maps analysis failures onto API statuses
func writeScanError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, media.ErrEmptySource),
		errors.Is(err, media.ErrUnsupportedScheme),
		errors.Is(err, media.ErrSourceNotFound),
		errors.Is(err, appanalysis.ErrInvalidTemplateName):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, appanalysis.ErrTemplateNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, analysis.ErrDetectorUnavailable):
		writeError(w, r, http.StatusNotImplemented, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("analysis failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
