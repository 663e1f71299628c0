package handlers

import (
	"context"
	"net/http"
)

// ToolVerifier checks that an external tool can be executed
type ToolVerifier interface {
	VerifyInstalled(ctx context.Context) error
}

type healthResponse struct {
	Status  string `json:"status"`
	FFmpeg  bool   `json:"ffmpeg"`
	FFprobe bool   `json:"ffprobe"`
}

// Healthz reports liveness together with the state of the media tools.
// Answering at all is the health signal; a missing tool shows up as a
// false flag, not as a non-200.
func Healthz(ffmpeg, ffprobe ToolVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, healthResponse{
			Status:  "ok",
			FFmpeg:  ffmpeg.VerifyInstalled(r.Context()) == nil,
			FFprobe: ffprobe.VerifyInstalled(r.Context()) == nil,
		})
	}
}
