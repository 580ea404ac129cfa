package game

import (
	"time"

	"github.com/ayusman/katana/internal/detector"
)

// TargetView is the renderer's copy of a live target.
type TargetView struct {
	ID       uint64   `json:"id"`
	Category Category `json:"category"`
	Kind     string   `json:"kind"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

// Snapshot is an immutable picture of one tick, sufficient to draw it.
// Combo and Ended are set only on the tick the bonus was awarded or the
// session ended; ComboActive stays set while the banner should show.
type Snapshot struct {
	Tick        uint64             `json:"tick"`
	ElapsedMs   int64              `json:"elapsed_ms"`
	State       State              `json:"state"`
	Cause       EndCause           `json:"cause"`
	Score       int                `json:"score"`
	Missed      int                `json:"missed"`
	MissCap     int                `json:"miss_cap"`
	ComboActive bool               `json:"combo_active"`
	Combo       bool               `json:"combo"`
	Ended       bool               `json:"ended"`
	HandHeld    bool               `json:"hand_held"`
	HandStale   bool               `json:"hand_stale"`
	FieldWidth  float64            `json:"field_width"`
	FieldHeight float64            `json:"field_height"`
	Targets     []TargetView       `json:"targets"`
	Pointers    []detector.Point2D `json:"pointers"`
	Events      []Event            `json:"events"`
}

// Views copies the live targets for a snapshot.
func Views(targets []*Target) []TargetView {
	views := make([]TargetView, 0, len(targets))
	for _, t := range targets {
		if !t.Live() {
			continue
		}
		views = append(views, TargetView{
			ID:       t.ID,
			Category: t.Category,
			Kind:     t.Kind,
			X:        t.X,
			Y:        t.Y,
			Width:    t.Width,
			Height:   t.Height,
		})
	}
	return views
}

// Elapsed returns the snapshot's game clock.
func (s Snapshot) Elapsed() time.Duration {
	return time.Duration(s.ElapsedMs) * time.Millisecond
}
