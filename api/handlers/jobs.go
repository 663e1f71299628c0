package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	jobapp "github.com/shailu9/MediaInfoApi/application/job"
	"github.com/shailu9/MediaInfoApi/domain/job"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// JobService is the slice of the job application the API needs
type JobService interface {
	Submit(ctx context.Context, req jobapp.SubmitRequest) (*job.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*job.Job, error)
	List(ctx context.Context, req jobapp.ListRequest) ([]*job.Job, error)
	Cancel(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

const defaultJobLimit = 50

type submitJobRequest struct {
	Kind   string          `json:"kind"`
	URL    string          `json:"url"`
	Params json.RawMessage `json:"params"`
}

type jobResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Source       string          `json:"source"`
	Params       json.RawMessage `json:"params,omitempty"`
	Status       string          `json:"status"`
	Error        string          `json:"error,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	ArtifactPath string          `json:"artifact_path,omitempty"`
	ArchiveURL   string          `json:"archive_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}

func newJobResponse(j *job.Job) jobResponse {
	return jobResponse{
		ID:           j.ID.String(),
		Kind:         string(j.Kind),
		Source:       j.Source,
		Params:       j.Params,
		Status:       string(j.Status),
		Error:        j.Error,
		Result:       j.Result,
		ArtifactPath: j.ArtifactPath,
		ArchiveURL:   j.ArchiveURL,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		FinishedAt:   j.FinishedAt,
	}
}

// SubmitJob queues a processing job and answers 202 with its record
func SubmitJob(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitJobRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		j, err := svc.Submit(r.Context(), jobapp.SubmitRequest{
			Kind:   req.Kind,
			Source: req.URL,
			Params: req.Params,
		})
		if err != nil {
			var verr *jobapp.ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, r, http.StatusBadRequest, verr.Error())
			case errors.Is(err, jobapp.ErrQueueFull):
				writeError(w, r, http.StatusServiceUnavailable, "job queue is full, retry later")
			default:
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to submit job")
				writeError(w, r, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, r, http.StatusAccepted, newJobResponse(j))
	}
}

// ListJobs answers recent jobs, optionally narrowed by status and kind
func ListJobs(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := jobapp.ListRequest{
			Status: r.URL.Query().Get("status"),
			Kind:   r.URL.Query().Get("kind"),
			Limit:  defaultJobLimit,
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
				return
			}
			req.Limit = n
		}

		jobs, err := svc.List(r.Context(), req)
		if err != nil {
			var verr *jobapp.ValidationError
			if errors.As(err, &verr) {
				writeError(w, r, http.StatusBadRequest, verr.Error())
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to list jobs")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]jobResponse, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, newJobResponse(j))
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

// GetJob answers a single job by id
func GetJob(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, ok := loadJob(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, r, http.StatusOK, newJobResponse(j))
	}
}

// CancelJob stops a queued or running job
func CancelJob(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := mux.Vars(r)["job_id"]
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid job id %q", raw))
			return
		}

		j, err := svc.Cancel(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, job.ErrJobNotFound):
				writeError(w, r, http.StatusNotFound, "job not found")
			case errors.Is(err, job.ErrBadTransition):
				writeError(w, r, http.StatusConflict, err.Error())
			default:
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to cancel job")
				writeError(w, r, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, r, http.StatusOK, newJobResponse(j))
	}
}

// JobArtifact streams the output file of a finished job. The sniffer
// decides the Content-Type from the artifact's content; it may be nil.
func JobArtifact(svc JobService, sniffer media.TypeSniffer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, ok := loadJob(w, r, svc)
		if !ok {
			return
		}

		if !j.Status.Terminal() {
			writeError(w, r, http.StatusConflict, fmt.Sprintf("job is %s, artifact not ready", j.Status))
			return
		}
		if j.ArtifactPath == "" {
			writeError(w, r, http.StatusNotFound, "job has no artifact")
			return
		}
		if _, err := os.Stat(j.ArtifactPath); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("path", j.ArtifactPath).Msg("artifact missing from disk")
			writeError(w, r, http.StatusNotFound, "artifact no longer available")
			return
		}

		ctype := "application/octet-stream"
		if sniffer != nil {
			if mime, err := sniffer.DetectFile(j.ArtifactPath); err == nil {
				ctype = mime
			}
		}
		w.Header().Set("Content-Type", ctype)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(j.ArtifactPath)))
		http.ServeFile(w, r, j.ArtifactPath)
	}
}

func loadJob(w http.ResponseWriter, r *http.Request, svc JobService) (*job.Job, bool) {
	raw := mux.Vars(r)["job_id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid job id %q", raw))
		return nil, false
	}

	j, err := svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, r, http.StatusNotFound, "job not found")
			return nil, false
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load job")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return j, true
}
