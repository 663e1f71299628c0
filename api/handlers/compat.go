package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// Root answers the banner the service has answered since its first
// deployment
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"Hello": "World"})
	}
}

type itemResponse struct {
	ItemID int     `json:"item_id"`
	Q      *string `json:"q"`
}

// Item answers the demo item lookup kept for old clients
func Item() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := mux.Vars(r)["item_id"]
		itemID, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid item id %q", raw))
			return
		}

		var q *string
		if v := r.URL.Query().Get("q"); v != "" {
			q = &v
		}
		writeJSON(w, r, http.StatusOK, itemResponse{ItemID: itemID, Q: q})
	}
}

type probeAudioRequest struct {
	URL string `json:"url"`
}

type probeAudioSuccess struct {
	Success  bool `json:"success"`
	HasAudio bool `json:"has_audio"`
}

type probeAudioFailure struct {
	Success bool    `json:"success"`
	Error   string  `json:"error"`
	Stderr  *string `json:"stderr,omitempty"`
}

// ProbeAudio reports whether a source carries an audio stream. Probe
// failures are part of the payload rather than the status code; existing
// callers of this endpoint branch on the success flag, not on HTTP codes.
func ProbeAudio(svc ProbeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req probeAudioRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		rec, err := svc.Probe(r.Context(), req.URL)
		if err != nil {
			resp := probeAudioFailure{Error: err.Error()}
			var perr *media.ProbeError
			if errors.As(err, &perr) {
				resp.Error = perr.Error()
				resp.Stderr = &perr.Stderr
			}
			writeJSON(w, r, http.StatusOK, resp)
			return
		}

		writeJSON(w, r, http.StatusOK, probeAudioSuccess{Success: true, HasAudio: rec.HasAudio})
	}
}
