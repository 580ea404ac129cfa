package game

import (
	"time"

	"github.com/ayusman/katana/internal/config"
)

// Delta summarizes what one Apply call changed.
type Delta struct {
	Score  int
	Missed int
	Combo  bool
	Ended  bool
	Cause  EndCause

	// Applied is how many leading events of the batch were folded in.
	// Events after a terminal one are ignored.
	Applied int
}

// Aggregator applies a tick's events to a Session: scoring, misses, combo
// detection and the terminal conditions.
type Aggregator struct {
	missCap      int
	comboWindow  time.Duration
	comboBonus   int
	comboDisplay time.Duration
}

// NewAggregator builds an aggregator from the game rules.
func NewAggregator(rules config.GameConfig) *Aggregator {
	return &Aggregator{
		missCap:      rules.MissCap,
		comboWindow:  rules.ComboWindow(),
		comboBonus:   rules.ComboBonus,
		comboDisplay: rules.ComboDisplay(),
	}
}

// Apply folds events into s at time now. It must be called every playing
// tick, including ticks without events, so the combo window is pruned.
//
// A terminal session accepts no changes. HazardHit ends the session at once
// and stops processing the batch; reaching the miss cap does the same. A
// combo is awarded once when the pruned window holds two or more slices,
// and the window is then cleared.
func (a *Aggregator) Apply(s *Session, events []Event, now time.Duration) Delta {
	var d Delta
	if s.Terminal() {
		return d
	}

	for i, ev := range events {
		d.Applied = i + 1
		switch ev.Type {
		case EventSliced:
			s.Score++
			s.Slices++
			s.Window.Push(now)
			d.Score++

		case EventHazardHit:
			s.end(EndHazard)
			d.Ended, d.Cause = true, EndHazard
			a.check(s)
			return d

		case EventMissed:
			s.Missed++
			d.Missed++
			if s.Missed >= a.missCap {
				s.end(EndMisses)
				d.Ended, d.Cause = true, EndMisses
				a.check(s)
				return d
			}

		default:
			violation("unknown event type %s for target %d", ev.Type, ev.TargetID)
		}
	}

	s.Window.Prune(now, a.comboWindow)
	if s.Window.Len() >= 2 {
		s.Score += a.comboBonus
		s.Combos++
		s.Window.Clear()
		s.comboUntil = now + a.comboDisplay
		s.comboShown = true
		d.Score += a.comboBonus
		d.Combo = true
	}

	a.check(s)
	return d
}

// check clamps counters that must never go negative or past the cap.
func (a *Aggregator) check(s *Session) {
	if s.Score < 0 {
		violation("negative score %d", s.Score)
		s.Score = 0
	}
	if s.Missed < 0 {
		violation("negative miss count %d", s.Missed)
		s.Missed = 0
	}
	if s.Missed > a.missCap {
		violation("miss count %d above cap %d", s.Missed, a.missCap)
		s.Missed = a.missCap
	}
}
