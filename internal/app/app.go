// Package app runs the Katana game loop: one capture, detect, stabilize,
// collide and score cycle per tick, with control requests and output
// fan-out serialized around it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/katana/internal/capture"
	"github.com/ayusman/katana/internal/config"
	"github.com/ayusman/katana/internal/detector"
	"github.com/ayusman/katana/internal/game"
	"github.com/ayusman/katana/internal/metrics"
	"github.com/ayusman/katana/internal/store"
)

// DefaultQueueSize is the per-subscriber buffer used when Config.QueueSize is unset.
const DefaultQueueSize = 8

var (
	// ErrStopped is returned by control calls once the loop has exited.
	ErrStopped = errors.New("game loop stopped")
	// ErrNoFrame is returned by ReadFrame before the first frame arrives.
	ErrNoFrame = errors.New("no frame captured yet")
)

// HandSource turns one camera frame into this tick's raw detection.
// *detector.Adapter is the production implementation.
type HandSource interface {
	Detect(frame *gocv.Mat) detector.LandmarkFrame
}

// ResultWriter persists finished games. *store.ResultRepository satisfies it.
type ResultWriter interface {
	Create(res *store.Result) error
}

// Config holds the collaborators of the loop. Camera and Hands are required.
type Config struct {
	Rules        config.GameConfig
	Camera       capture.Camera
	Preprocessor *capture.Preprocessor
	Hands        HandSource
	Results      ResultWriter
	Metrics      *metrics.Manager
	QueueSize    int
}

type controlOp int

const (
	opStart controlOp = iota
	opPause
	opResume
	opReset
)

func (op controlOp) String() string {
	switch op {
	case opStart:
		return "start"
	case opPause:
		return "pause"
	case opResume:
		return "resume"
	case opReset:
		return "reset"
	}
	return "unknown"
}

type command struct {
	op    controlOp
	reply chan error
}

// App owns the Engine and drives it at the configured tick rate.
type App struct {
	config Config
	engine *Engine
	cmds   chan command

	mu        sync.RWMutex
	renderers []*queue[game.Snapshot]
	sinks     []*queue[Effects]
	latest    game.Snapshot
	frame     gocv.Mat
	hasFrame  bool

	sessionID string
	startedAt time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	err      error
}

// New creates an App. The loop does not run until Run is called.
func New(config Config) *App {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}

	a := &App{
		config: config,
		engine: NewEngine(config.Rules),
		cmds:   make(chan command),
		frame:  gocv.NewMat(),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	a.latest = a.engine.View(0)
	return a
}

// AddRenderer subscribes r to every snapshot. Snapshots that arrive while
// r is still busy with earlier ones are dropped once its queue is full.
func (a *App) AddRenderer(r Renderer) {
	q := newQueue("renderer", a.config.QueueSize, r.Render, a.config.Metrics)
	a.mu.Lock()
	a.renderers = append(a.renderers, q)
	a.mu.Unlock()
}

// AddEffectSink subscribes s to per-tick effects with the same drop policy.
func (a *App) AddEffectSink(s EffectSink) {
	q := newQueue("effects", a.config.QueueSize, s.HandleEffects, a.config.Metrics)
	a.mu.Lock()
	a.sinks = append(a.sinks, q)
	a.mu.Unlock()
}

// Run opens the camera and ticks until ctx is cancelled, Stop is called or
// the frame source ends. End of stream is reported as
// capture.ErrFrameUnavailable; a requested stop returns nil.
func (a *App) Run(ctx context.Context) error {
	defer a.finish()

	if err := a.config.Rules.Validate(); err != nil {
		a.err = err
		return err
	}
	if err := a.config.Camera.Open(); err != nil {
		a.err = fmt.Errorf("open camera: %w", err)
		return a.err
	}
	a.config.Camera.SetFPS(a.config.Rules.TickRate)

	interval := a.config.Rules.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Game loop started at %d Hz", a.config.Rules.TickRate)
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Println("Game loop stopped")
			return nil
		case <-a.stopCh:
			log.Println("Game loop stopped")
			return nil
		case cmd := <-a.cmds:
			cmd.reply <- a.apply(cmd.op)
		case <-ticker.C:
			if err := a.step(time.Since(start)); err != nil {
				if errors.Is(err, capture.ErrFrameUnavailable) {
					log.Printf("Frame source ended: %v", err)
				}
				a.err = err
				return err
			}
		}
	}
}

// step runs one tick. The only error it returns ends the loop.
func (a *App) step(now time.Duration) error {
	began := time.Now()

	raw, err := a.config.Camera.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrCameraNotOpen) {
			return fmt.Errorf("%w: %v", capture.ErrFrameUnavailable, err)
		}
		return err
	}

	frame := raw
	if a.config.Preprocessor != nil {
		frame, err = a.config.Preprocessor.Apply(raw)
		raw.Close()
		if err != nil {
			return fmt.Errorf("%w: %v", capture.ErrFrameUnavailable, err)
		}
	}

	hand := a.config.Hands.Detect(frame)
	a.keepFrame(frame)

	snap := a.engine.Tick(hand, now)
	if snap.Ended {
		a.record(snap)
	}

	a.config.Metrics.ObserveTick(snap, time.Since(began))
	a.publish(snap)
	return nil
}

// keepFrame retains frame as the latest preview and closes it.
func (a *App) keepFrame(frame *gocv.Mat) {
	a.mu.Lock()
	frame.CopyTo(&a.frame)
	a.hasFrame = true
	a.mu.Unlock()
	frame.Close()
}

func (a *App) publish(snap game.Snapshot) {
	a.mu.Lock()
	a.latest = snap
	renderers := a.renderers
	sinks := a.sinks
	a.mu.Unlock()

	for _, q := range renderers {
		q.offer(snap)
	}

	effects, ok := effectsOf(snap, a.sessionID)
	if !ok {
		return
	}
	for _, q := range sinks {
		q.offer(effects)
	}
}

func (a *App) record(snap game.Snapshot) {
	a.config.Metrics.GameOver(snap.Cause)

	if a.config.Results == nil {
		return
	}

	s := a.engine.Session()
	res := &store.Result{
		ID:        a.sessionID,
		StartedAt: a.startedAt,
		EndedAt:   time.Now(),
		Score:     s.Score,
		Missed:    s.Missed,
		Slices:    s.Slices,
		Combos:    s.Combos,
		Outcome:   outcomeOf(s.Cause),
	}
	if err := a.config.Results.Create(res); err != nil {
		log.Printf("Failed to record result %s: %v", res.ID, err)
	}
}

func outcomeOf(c game.EndCause) store.Outcome {
	if c == game.EndHazard {
		return store.OutcomeHazard
	}
	return store.OutcomeMisses
}

// apply runs a control request on the loop goroutine, between ticks.
func (a *App) apply(op controlOp) error {
	var err error
	switch op {
	case opStart:
		if err = a.engine.Start(); err == nil {
			a.sessionID = uuid.New().String()
			a.startedAt = time.Now()
		}
	case opPause:
		err = a.engine.Pause()
	case opResume:
		err = a.engine.Resume()
	case opReset:
		a.engine.Reset()
		a.sessionID = ""
	default:
		err = fmt.Errorf("unknown control %d", op)
	}

	if err != nil {
		return err
	}
	log.Printf("Session %s: now %s", op, a.engine.State())

	a.mu.Lock()
	a.latest = a.engine.View(a.latest.Elapsed())
	a.mu.Unlock()
	return nil
}

func (a *App) do(op controlOp) error {
	cmd := command{op: op, reply: make(chan error, 1)}
	select {
	case a.cmds <- cmd:
	case <-a.done:
		return ErrStopped
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-a.done:
		return ErrStopped
	}
}

// Start begins a game from Ready. Control calls block until the loop
// applies them between ticks.
func (a *App) Start() error { return a.do(opStart) }

// Pause freezes a running game.
func (a *App) Pause() error { return a.do(opPause) }

// Resume continues a paused game.
func (a *App) Resume() error { return a.do(opResume) }

// Reset discards the current game and returns to Ready.
func (a *App) Reset() error { return a.do(opReset) }

// Toggle pauses a playing game or resumes a paused one.
func (a *App) Toggle() error {
	if a.Snapshot().State == game.StatePaused {
		return a.Resume()
	}
	return a.Pause()
}

// Stop ends the loop after the current tick.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
}

// Done is closed once Run has returned.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// Err returns why the loop exited, or nil for a requested stop.
func (a *App) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

// Snapshot returns the most recent snapshot.
func (a *App) Snapshot() game.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// ReadFrame returns a copy of the latest preprocessed frame for previews.
// The caller owns the returned Mat.
func (a *App) ReadFrame() (*gocv.Mat, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.hasFrame {
		return nil, ErrNoFrame
	}
	frame := a.frame.Clone()
	return &frame, nil
}

func (a *App) finish() {
	if err := a.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.mu.Lock()
	renderers, sinks := a.renderers, a.sinks
	a.renderers, a.sinks = nil, nil
	a.frame.Close()
	a.hasFrame = false
	a.mu.Unlock()

	// Consumers may call back into the App while draining.
	for _, q := range renderers {
		q.close()
	}
	for _, q := range sinks {
		q.close()
	}

	close(a.done)
}
