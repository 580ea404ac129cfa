package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned by a control request the current state does not allow.
var ErrInvalidTransition = errors.New("invalid session transition")

// State is the session lifecycle.
type State int

const (
	// StateReady waits for Start; nothing moves.
	StateReady State = iota
	StatePlaying
	StatePaused
	// StateOver is terminal until Reset.
	StateOver
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state for JSON snapshots.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EndCause records why a session became terminal.
type EndCause int

const (
	EndNone EndCause = iota
	EndHazard
	EndMisses
)

func (c EndCause) String() string {
	switch c {
	case EndNone:
		return "none"
	case EndHazard:
		return "hazard"
	case EndMisses:
		return "misses"
	}
	return fmt.Sprintf("cause(%d)", int(c))
}

// MarshalText renders the cause for JSON snapshots.
func (c EndCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Session is the single live game session. It is owned by the tick loop and
// passed by pointer to whatever updates it.
type Session struct {
	State  State
	Cause  EndCause
	Score  int
	Missed int
	Slices int
	Combos int

	Window ComboWindow

	comboUntil time.Duration
	comboShown bool
}

// NewSession creates a session waiting for Start.
func NewSession() *Session {
	return &Session{State: StateReady}
}

// Terminal reports whether the session has ended.
func (s *Session) Terminal() bool {
	return s.State == StateOver
}

// ComboActive reports whether the combo banner should show at now.
func (s *Session) ComboActive(now time.Duration) bool {
	return s.comboShown && now < s.comboUntil
}

// Start leaves Ready.
func (s *Session) Start() error {
	return s.transition(StateReady, StatePlaying)
}

// Pause suspends a playing session.
func (s *Session) Pause() error {
	return s.transition(StatePlaying, StatePaused)
}

// Resume continues a paused session.
func (s *Session) Resume() error {
	return s.transition(StatePaused, StatePlaying)
}

func (s *Session) transition(from, to State) error {
	if s.State != from {
		return fmt.Errorf("%w: %s -> %s from %s", ErrInvalidTransition, from, to, s.State)
	}
	s.State = to
	return nil
}

func (s *Session) end(cause EndCause) {
	s.State = StateOver
	s.Cause = cause
}

// ComboWindow holds timestamps of recent slices, oldest first.
type ComboWindow struct {
	stamps []time.Duration
}

// Push records a slice at t.
func (w *ComboWindow) Push(t time.Duration) {
	w.stamps = append(w.stamps, t)
}

// Prune drops entries at least span older than now.
func (w *ComboWindow) Prune(now, span time.Duration) {
	keep := w.stamps[:0]
	for _, t := range w.stamps {
		if now-t < span {
			keep = append(keep, t)
		}
	}
	w.stamps = keep
}

// Len returns the number of slices in the window.
func (w *ComboWindow) Len() int {
	return len(w.stamps)
}

// Clear empties the window.
func (w *ComboWindow) Clear() {
	w.stamps = w.stamps[:0]
}
