// Package game holds the arcade rules: the live target set, collision
// classification, scoring, combos and the session state machine.
package game

import (
	"errors"
	"fmt"

	"github.com/ayusman/katana/internal/detector"
)

// ErrTargetResolved is returned when a target that already left the live set
// is resolved again.
var ErrTargetResolved = errors.New("target already resolved")

// Category is the kind of target. Every decision point switches on it
// exhaustively.
type Category int

const (
	// Normal targets score when sliced and count as missed when they fall off.
	Normal Category = iota
	// Hazard targets end the session when sliced and leave silently otherwise.
	Hazard
)

// HazardKind is the Kind carried by hazard targets.
const HazardKind = "bomb"

func (c Category) String() string {
	switch c {
	case Normal:
		return "normal"
	case Hazard:
		return "hazard"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarshalText renders the category for JSON snapshots.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Outcome records how a target left the live set.
type Outcome int

const (
	OutcomeLive Outcome = iota
	OutcomeSliced
	OutcomeHazardHit
	OutcomeMissed
	// OutcomeExited is a hazard falling off the field untouched.
	OutcomeExited
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLive:
		return "live"
	case OutcomeSliced:
		return "sliced"
	case OutcomeHazardHit:
		return "hazard_hit"
	case OutcomeMissed:
		return "missed"
	case OutcomeExited:
		return "exited"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Target is a falling object. X, Y is the top-left corner of its hit box in
// field pixels; Speed is added to Y every tick.
type Target struct {
	ID       uint64
	Category Category
	Kind     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Speed    float64
	outcome  Outcome
}

// Live reports whether the target is still in play.
func (t *Target) Live() bool {
	return t.outcome == OutcomeLive
}

// Outcome returns how the target was resolved, or OutcomeLive.
func (t *Target) Outcome() Outcome {
	return t.outcome
}

// Contains reports whether p lies inside the hit box. The right and bottom
// edges are exclusive.
func (t *Target) Contains(p detector.Point2D) bool {
	return p.X >= t.X && p.X < t.X+t.Width &&
		p.Y >= t.Y && p.Y < t.Y+t.Height
}

// Center returns the middle of the hit box.
func (t *Target) Center() detector.Point2D {
	return detector.Point2D{X: t.X + t.Width/2, Y: t.Y + t.Height/2}
}

// resolve moves the target out of the live set. It happens exactly once.
func (t *Target) resolve(outcome Outcome) error {
	if t.outcome != OutcomeLive {
		return fmt.Errorf("%w: target %d is %s", ErrTargetResolved, t.ID, t.outcome)
	}
	t.outcome = outcome
	return nil
}
