package game

import "github.com/ayusman/katana/internal/detector"

// Resolve tests every live target against the pointers and resolves hits.
//
// Targets are visited in slice order and pointers in slice order. The first
// pointer inside a target wins it; later pointers are not tested against
// that target. One pointer may resolve several targets in the same call.
// Non-hazard hits emit Sliced and hazard hits emit HazardHit. Score is not
// touched here.
func Resolve(pointers []detector.Point2D, targets []*Target) []Event {
	if len(pointers) == 0 {
		return nil
	}

	var events []Event
	for _, t := range targets {
		if !t.Live() {
			continue
		}

		for i, p := range pointers {
			if !t.Contains(p) {
				continue
			}
			if ev, ok := hit(t, i); ok {
				events = append(events, ev)
			}
			break
		}
	}
	return events
}

// hit resolves t as struck by pointer i, reading the category from t.
func hit(t *Target, pointer int) (Event, bool) {
	var (
		outcome Outcome
		typ     EventType
	)
	switch t.Category {
	case Normal:
		outcome, typ = OutcomeSliced, EventSliced
	case Hazard:
		outcome, typ = OutcomeHazardHit, EventHazardHit
	default:
		violation("target %d has unknown category %s", t.ID, t.Category)
		return Event{}, false
	}

	if err := t.resolve(outcome); err != nil {
		violation("%v", err)
		return Event{}, false
	}
	return newEvent(typ, t, pointer), true
}
