package game

import (
	"math/rand/v2"

	"github.com/ayusman/katana/internal/config"
)

// Registry owns the live target set for one session.
//
// Per tick the engine calls, in order: Spawn, Advance, Resolve (collision),
// CullExited, Sweep.
type Registry struct {
	rules   config.GameConfig
	rng     *rand.Rand
	targets []*Target
	nextID  uint64
	ticks   int
}

// NewRegistry creates an empty registry drawing spawn parameters from rng.
func NewRegistry(rules config.GameConfig, rng *rand.Rand) *Registry {
	return &Registry{
		rules:  rules,
		rng:    rng,
		nextID: 1,
	}
}

// Targets returns the tracked targets in spawn order. The slice is owned by
// the registry and valid until the next Sweep.
func (r *Registry) Targets() []*Target {
	return r.targets
}

// Len returns the number of tracked targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// Spawn counts one tick and creates a target every SpawnInterval ticks.
// It returns the new target, or nil on other ticks.
func (r *Registry) Spawn() *Target {
	r.ticks++
	if r.ticks < r.rules.SpawnInterval {
		return nil
	}
	r.ticks = 0

	category := Normal
	if r.rng.Float64() < r.rules.HazardProbability {
		category = Hazard
	}

	t := &Target{
		ID:       r.nextID,
		Category: category,
		Kind:     r.kindFor(category),
		X:        r.uniform(r.rules.SpawnMargin, r.rules.FieldWidth-r.rules.SpawnMargin),
		Y:        r.rules.SpawnY,
		Width:    r.rules.TargetSize,
		Height:   r.rules.TargetSize,
		Speed:    r.uniform(r.rules.MinSpeed, r.rules.MaxSpeed),
	}
	r.nextID++
	r.targets = append(r.targets, t)
	return t
}

// Add tracks an externally built target, assigning it the next ID.
func (r *Registry) Add(t *Target) *Target {
	t.ID = r.nextID
	t.outcome = OutcomeLive
	r.nextID++
	r.targets = append(r.targets, t)
	return t
}

// Advance moves every live target down by its speed.
func (r *Registry) Advance() {
	for _, t := range r.targets {
		if t.Live() {
			t.Y += t.Speed
		}
	}
}

// CullExited resolves live targets whose top edge has passed the bottom of
// the field. Normal targets produce Missed; hazards leave without an event.
func (r *Registry) CullExited() []Event {
	var events []Event
	for _, t := range r.targets {
		if !t.Live() || t.Y <= r.rules.FieldHeight {
			continue
		}

		switch t.Category {
		case Normal:
			if err := t.resolve(OutcomeMissed); err != nil {
				violation("%v", err)
				continue
			}
			events = append(events, newEvent(EventMissed, t, -1))
		case Hazard:
			if err := t.resolve(OutcomeExited); err != nil {
				violation("%v", err)
			}
		default:
			violation("target %d has unknown category %s", t.ID, t.Category)
			t.outcome = OutcomeExited
		}
	}
	return events
}

// Sweep drops every resolved target.
func (r *Registry) Sweep() {
	live := r.targets[:0]
	for _, t := range r.targets {
		if t.Live() {
			live = append(live, t)
		}
	}
	clear(r.targets[len(live):])
	r.targets = live
}

// Reset drops all targets and restarts the spawn cadence and IDs.
func (r *Registry) Reset() {
	r.targets = nil
	r.ticks = 0
	r.nextID = 1
}

func (r *Registry) kindFor(c Category) string {
	switch c {
	case Hazard:
		return HazardKind
	case Normal:
		if len(r.rules.Kinds) == 0 {
			return ""
		}
		return r.rules.Kinds[r.rng.IntN(len(r.rules.Kinds))]
	}
	violation("spawn with unknown category %s", c)
	return ""
}

func (r *Registry) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Float64()*(hi-lo)
}
