package app

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/ayusman/katana/internal/config"
	"github.com/ayusman/katana/internal/detector"
	"github.com/ayusman/katana/internal/game"
	"github.com/ayusman/katana/internal/tracking"
)

// Engine runs one game tick at a time. It owns the stabilizer, the target
// registry and the session, and is not safe for concurrent use; App
// serializes every call onto its loop goroutine.
type Engine struct {
	rules      config.GameConfig
	stabilizer *tracking.Stabilizer
	registry   *game.Registry
	aggregator *game.Aggregator
	session    *game.Session
	tick       uint64
}

// NewEngine creates an engine in the Ready state. A zero rules.Seed seeds
// spawning randomly; any other value makes the spawn sequence repeatable.
func NewEngine(rules config.GameConfig) *Engine {
	seed := rules.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Engine{
		rules:      rules,
		stabilizer: tracking.NewStabilizer(rules.LockThreshold),
		registry:   game.NewRegistry(rules, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		aggregator: game.NewAggregator(rules),
		session:    game.NewSession(),
	}
}

// Tick advances the pipeline by one step with this tick's raw detection.
// now is the game clock used for combo timing.
//
// The hand is always stabilized and its pointers extracted so they can be
// drawn in every state. Targets only spawn, move and collide while Playing.
// The snapshot carries only the events the session accepted; anything
// after a game-ending event is dropped.
func (e *Engine) Tick(raw detector.LandmarkFrame, now time.Duration) game.Snapshot {
	e.tick++

	hand := e.stabilizer.Update(raw)
	pointers := tracking.Extract(hand, e.rules.Fingertips)

	var (
		events []game.Event
		delta  game.Delta
	)
	if e.session.State == game.StatePlaying {
		e.registry.Spawn()
		e.registry.Advance()
		events = game.Resolve(pointers, e.registry.Targets())
		events = append(events, e.registry.CullExited()...)
		e.registry.Sweep()
		delta = e.aggregator.Apply(e.session, events, now)
		events = events[:delta.Applied]

		if delta.Ended {
			log.Printf("Game over (%s): score %d, missed %d", delta.Cause, e.session.Score, e.session.Missed)
		}
	}

	snap := e.snapshot(now, pointers)
	snap.Combo = delta.Combo
	snap.Ended = delta.Ended
	snap.Events = events
	return snap
}

// View describes the current state at now without advancing anything.
func (e *Engine) View(now time.Duration) game.Snapshot {
	return e.snapshot(now, tracking.Extract(e.stabilizer.Held(), e.rules.Fingertips))
}

func (e *Engine) snapshot(now time.Duration, pointers []detector.Point2D) game.Snapshot {
	return game.Snapshot{
		Tick:        e.tick,
		ElapsedMs:   now.Milliseconds(),
		State:       e.session.State,
		Cause:       e.session.Cause,
		Score:       e.session.Score,
		Missed:      e.session.Missed,
		MissCap:     e.rules.MissCap,
		ComboActive: e.session.ComboActive(now),
		HandHeld:    e.stabilizer.Holding(),
		HandStale:   e.stabilizer.Stale(),
		FieldWidth:  e.rules.FieldWidth,
		FieldHeight: e.rules.FieldHeight,
		Targets:     game.Views(e.registry.Targets()),
		Pointers:    pointers,
	}
}

// Start begins play from Ready.
func (e *Engine) Start() error {
	return e.session.Start()
}

// Pause freezes a playing session.
func (e *Engine) Pause() error {
	return e.session.Pause()
}

// Resume continues a paused session.
func (e *Engine) Resume() error {
	return e.session.Resume()
}

// Reset discards the session, every target and the held hand, and returns
// to Ready. It is valid from any state.
func (e *Engine) Reset() {
	e.session = game.NewSession()
	e.registry.Reset()
	e.stabilizer.Reset()
}

// State returns the session state.
func (e *Engine) State() game.State {
	return e.session.State
}

// Session returns a copy of the session counters.
func (e *Engine) Session() game.Session {
	return *e.session
}

// Registry exposes the target registry.
func (e *Engine) Registry() *game.Registry {
	return e.registry
}
