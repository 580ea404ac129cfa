// Package hook runs external executables when game events happen, so a
// finished game can post a score or a slice can flash a light.
package hook

import "encoding/json"

// ManifestFile is the manifest name looked up in each hook directory.
const ManifestFile = "hook.json"

// Hook event names.
const (
	EventSliced    = "sliced"
	EventHazardHit = "hazard_hit"
	EventMissed    = "missed"
	EventCombo     = "combo"
	EventGameOver  = "game_over"
)

// Manifest describes a hook and the events it subscribes to.
type Manifest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Request is written to the hook's stdin as one JSON document.
type Request struct {
	Event     string          `json:"event"`
	SessionID string          `json:"session_id"`
	Tick      uint64          `json:"tick"`
	Score     int             `json:"score"`
	Kind      string          `json:"kind,omitempty"`
	Cause     string          `json:"cause,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is read from the hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether the hook subscribed to event.
func (h *Hook) Wants(event string) bool {
	for _, e := range h.Manifest.Events {
		if e == event || e == "*" {
			return true
		}
	}
	return false
}
