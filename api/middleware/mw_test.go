package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestWithLogger_AttachesRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = orig }()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/probe", nil)
	w := httptest.NewRecorder()
	WithLogger(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)

	logged := buf.String()
	assert.Contains(t, logged, "request_id")
	assert.Contains(t, logged, `"method":"GET"`)
	assert.Contains(t, logged, "inside handler")
	assert.Contains(t, logged, `"status":418`)

	// The handler line and the access line share the request id
	lines := strings.Split(strings.TrimSpace(logged), "\n")
	assert.Len(t, lines, 2)
}

func TestRecover_PanicBecomes500(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/jobs", nil)
	w := httptest.NewRecorder()
	Recover(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRecover_PassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	Recover(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
