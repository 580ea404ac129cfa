package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/katana/internal/app"
	"github.com/ayusman/katana/internal/game"
)

// Controller is the part of the game loop the session API drives.
// *app.App implements it.
type Controller interface {
	Snapshot() game.Snapshot
	Start() error
	Pause() error
	Resume() error
	Reset() error
}

// SessionHandler exposes the current session and its controls.
type SessionHandler struct {
	ctl Controller
}

// NewSessionHandler creates a new SessionHandler over ctl.
func NewSessionHandler(ctl Controller) *SessionHandler {
	return &SessionHandler{ctl: ctl}
}

// ServeHTTP handles GET /api/session and POST /api/session/{start,pause,resume,reset}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.ctl.Snapshot())
		return
	}

	var control func() error
	switch path {
	case "start":
		control = h.ctl.Start
	case "pause":
		control = h.ctl.Pause
	case "resume":
		control = h.ctl.Resume
	case "reset":
		control = h.ctl.Reset
	default:
		writeError(w, http.StatusNotFound, "Unknown control")
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := control(); err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, app.ErrStopped):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, h.ctl.Snapshot())
}
