package game

import (
	"fmt"

	"github.com/ayusman/katana/internal/detector"
)

// EventType classifies what happened to a target.
type EventType int

const (
	EventSliced EventType = iota + 1
	EventHazardHit
	EventMissed
)

func (t EventType) String() string {
	switch t {
	case EventSliced:
		return "sliced"
	case EventHazardHit:
		return "hazard_hit"
	case EventMissed:
		return "missed"
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// MarshalText renders the event type for JSON snapshots.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is emitted once when a target leaves the live set. Kind and
// Category are copied from the target itself.
type Event struct {
	Type     EventType        `json:"type"`
	TargetID uint64           `json:"target_id"`
	Category Category         `json:"category"`
	Kind     string           `json:"kind"`
	Position detector.Point2D `json:"position"`
	// Pointer is the index of the winning pointer, or -1 for Missed.
	Pointer int `json:"pointer"`
}

func newEvent(typ EventType, t *Target, pointer int) Event {
	return Event{
		Type:     typ,
		TargetID: t.ID,
		Category: t.Category,
		Kind:     t.Kind,
		Position: t.Center(),
		Pointer:  pointer,
	}
}
