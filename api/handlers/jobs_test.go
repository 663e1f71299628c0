package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	jobapp "github.com/shailu9/MediaInfoApi/application/job"
	"github.com/shailu9/MediaInfoApi/domain/job"
)

type jobServiceMock struct {
	job  *job.Job
	jobs []*job.Job
	err  error

	submitted *jobapp.SubmitRequest
	listReq   *jobapp.ListRequest
}

func (m *jobServiceMock) Submit(ctx context.Context, req jobapp.SubmitRequest) (*job.Job, error) {
	m.submitted = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.job, nil
}

func (m *jobServiceMock) Get(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.job == nil || m.job.ID != id {
		return nil, job.ErrJobNotFound
	}
	return m.job, nil
}

func (m *jobServiceMock) List(ctx context.Context, req jobapp.ListRequest) ([]*job.Job, error) {
	m.listReq = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.jobs, nil
}

func (m *jobServiceMock) Cancel(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.job, nil
}

type sniffStub struct {
	mime string
	err  error
}

func (s sniffStub) DetectFile(path string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.mime, nil
}

func trimJob() *job.Job {
	return job.New(job.KindTrim, "/media/session.mp4", json.RawMessage(`{"start":"00:10:00","end":"01:40:00"}`))
}

func TestSubmitJob(t *testing.T) {
	j := trimJob()
	svc := &jobServiceMock{job: j}

	body := `{"kind": "trim", "url": "/media/session.mp4", "params": {"start": "00:10:00", "end": "01:40:00"}}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()

	SubmitJob(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp jobResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, j.ID.String(), resp.ID)
	assert.Equal(t, "trim", resp.Kind)
	assert.Equal(t, "queued", resp.Status)

	if assert.NotNil(t, svc.submitted) {
		assert.Equal(t, "trim", svc.submitted.Kind)
		assert.Equal(t, "/media/session.mp4", svc.submitted.Source)
		assert.JSONEq(t, `{"start":"00:10:00","end":"01:40:00"}`, string(svc.submitted.Params))
	}
}

func TestSubmitJob_Validation(t *testing.T) {
	svc := &jobServiceMock{err: &jobapp.ValidationError{
		Field:   "kind",
		Message: `unknown job kind "transcode"`,
	}}

	body := `{"kind": "transcode", "url": "/media/session.mp4"}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()

	SubmitJob(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown job kind")
}

func TestSubmitJob_QueueFull(t *testing.T) {
	svc := &jobServiceMock{err: jobapp.ErrQueueFull}

	body := `{"kind": "probe", "url": "/media/session.mp4"}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()

	SubmitJob(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "queue is full")
}

func TestSubmitJob_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader("{"))
	w := httptest.NewRecorder()

	SubmitJob(&jobServiceMock{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestListJobs_Filters(t *testing.T) {
	svc := &jobServiceMock{jobs: []*job.Job{trimJob()}}

	req := httptest.NewRequest(http.MethodGet, "/jobs?status=failed&kind=trim&limit=10", nil)
	w := httptest.NewRecorder()

	ListJobs(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.listReq) {
		assert.Equal(t, "failed", svc.listReq.Status)
		assert.Equal(t, "trim", svc.listReq.Kind)
		assert.Equal(t, 10, svc.listReq.Limit)
	}
}

func TestListJobs_Empty(t *testing.T) {
	svc := &jobServiceMock{}

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	w := httptest.NewRecorder()

	ListJobs(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	if assert.NotNil(t, svc.listReq) {
		assert.Equal(t, defaultJobLimit, svc.listReq.Limit)
	}
}

func TestListJobs_ValidationError(t *testing.T) {
	svc := &jobServiceMock{err: &jobapp.ValidationError{
		Field:   "status",
		Message: `unknown job status "done"`,
	}}

	req := httptest.NewRequest(http.MethodGet, "/jobs?status=done", nil)
	w := httptest.NewRecorder()

	ListJobs(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown job status")
}

func TestGetJob(t *testing.T) {
	j := trimJob()
	svc := &jobServiceMock{job: j}

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+j.ID.String(), nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": j.ID.String()})
	w := httptest.NewRecorder()

	GetJob(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp jobResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, j.ID.String(), resp.ID)
	assert.Equal(t, "/media/session.mp4", resp.Source)
}

func TestGetJob_NotFound(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": id})
	w := httptest.NewRecorder()

	GetJob(&jobServiceMock{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "job not found")
}

func TestGetJob_BadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/jobs/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": "abc"})
	w := httptest.NewRecorder()

	GetJob(&jobServiceMock{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid job id")
}

func TestCancelJob(t *testing.T) {
	j := trimJob()
	assert.NoError(t, j.Cancel())
	svc := &jobServiceMock{job: j}

	req := httptest.NewRequest(http.MethodDelete, "/jobs/"+j.ID.String(), nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": j.ID.String()})
	w := httptest.NewRecorder()

	CancelJob(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp jobResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "canceled", resp.Status)
}

func TestCancelJob_Finished(t *testing.T) {
	svc := &jobServiceMock{err: fmt.Errorf("%w: cannot cancel a succeeded job", job.ErrBadTransition)}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/jobs/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": id})
	w := httptest.NewRecorder()

	CancelJob(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "cannot cancel")
}

func TestCancelJob_NotFound(t *testing.T) {
	svc := &jobServiceMock{err: job.ErrJobNotFound}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/jobs/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": id})
	w := httptest.NewRecorder()

	CancelJob(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobArtifact(t *testing.T) {
	j := trimJob()
	assert.NoError(t, j.Start())
	assert.NoError(t, j.Succeed(nil))

	path := filepath.Join(t.TempDir(), "session-trimmed.mp4")
	assert.NoError(t, os.WriteFile(path, []byte("mp4 bytes"), 0o644))
	j.ArtifactPath = path

	svc := &jobServiceMock{job: j}

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+j.ID.String()+"/artifact", nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": j.ID.String()})
	w := httptest.NewRecorder()

	JobArtifact(svc, sniffStub{mime: "video/mp4"}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "session-trimmed.mp4")
	assert.Equal(t, "mp4 bytes", w.Body.String())
}

func TestJobArtifact_NotFinished(t *testing.T) {
	j := trimJob()
	svc := &jobServiceMock{job: j}

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+j.ID.String()+"/artifact", nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": j.ID.String()})
	w := httptest.NewRecorder()

	JobArtifact(svc, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "not ready")
}

func TestJobArtifact_NoArtifact(t *testing.T) {
	j := trimJob()
	assert.NoError(t, j.Start())
	assert.NoError(t, j.Fail("ffmpeg failed"))
	svc := &jobServiceMock{job: j}

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+j.ID.String()+"/artifact", nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": j.ID.String()})
	w := httptest.NewRecorder()

	JobArtifact(svc, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no artifact")
}

func TestJobArtifact_FileGone(t *testing.T) {
	j := trimJob()
	assert.NoError(t, j.Start())
	assert.NoError(t, j.Succeed(nil))
	j.ArtifactPath = filepath.Join(t.TempDir(), "deleted.mp4")
	svc := &jobServiceMock{job: j}

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+j.ID.String()+"/artifact", nil)
	req = mux.SetURLVars(req, map[string]string{"job_id": j.ID.String()})
	w := httptest.NewRecorder()

	JobArtifact(svc, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no longer available")
}
