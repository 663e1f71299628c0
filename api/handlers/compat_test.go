package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

func TestRoot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	Root().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Hello":"World"}`, w.Body.String())
}

func TestItem(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items/42?q=loud", nil)
	req = mux.SetURLVars(req, map[string]string{"item_id": "42"})
	w := httptest.NewRecorder()

	Item().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_id":42,"q":"loud"}`, w.Body.String())
}

func TestItem_NoQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req = mux.SetURLVars(req, map[string]string{"item_id": "7"})
	w := httptest.NewRecorder()

	Item().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_id":7,"q":null}`, w.Body.String())
}

func TestItem_BadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items/seven", nil)
	req = mux.SetURLVars(req, map[string]string{"item_id": "seven"})
	w := httptest.NewRecorder()

	Item().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid item id")
}

func TestProbeAudio(t *testing.T) {
	svc := &probeServiceMock{record: testRecord()}

	req := httptest.NewRequest(http.MethodPost, "/probe-audio", strings.NewReader(`{"url": "/media/session.mp4"}`))
	w := httptest.NewRecorder()

	ProbeAudio(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"has_audio":true}`, w.Body.String())
	assert.Equal(t, "/media/session.mp4", svc.probedSource)
}

func TestProbeAudio_ToolFailure(t *testing.T) {
	svc := &probeServiceMock{err: &media.ProbeError{
		Stderr: "No such file or directory",
		Err:    errors.New("exit status 1"),
	}}

	req := httptest.NewRequest(http.MethodPost, "/probe-audio", strings.NewReader(`{"url": "/media/broken.mp4"}`))
	w := httptest.NewRecorder()

	ProbeAudio(svc).ServeHTTP(w, req)

	// Tool failures stay 200: callers branch on the success flag
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"ffprobe failed","stderr":"No such file or directory"}`, w.Body.String())
}

func TestProbeAudio_MissingSource(t *testing.T) {
	svc := &probeServiceMock{err: fmt.Errorf("%w: /media/missing.mp4", media.ErrSourceNotFound)}

	req := httptest.NewRequest(http.MethodPost, "/probe-audio", strings.NewReader(`{"url": "/media/missing.mp4"}`))
	w := httptest.NewRecorder()

	ProbeAudio(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "does not exist")
	assert.NotContains(t, resp, "stderr")
	assert.NotContains(t, resp, "has_audio")
}

func TestProbeAudio_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/probe-audio", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	ProbeAudio(&probeServiceMock{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}
