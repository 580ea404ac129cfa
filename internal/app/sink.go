package app

import (
	"sync"

	"github.com/ayusman/katana/internal/game"
	"github.com/ayusman/katana/internal/metrics"
)

// Renderer draws snapshots. Render runs on the renderer's own goroutine and
// may take as long as it likes; the loop never waits for it.
type Renderer interface {
	Render(snap game.Snapshot)
}

// EffectSink reacts to what happened in a tick (sounds, hooks). Like a
// Renderer it is fed asynchronously and cannot slow the loop down.
type EffectSink interface {
	HandleEffects(fx Effects)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(game.Snapshot)

// Render calls f(snap).
func (f RendererFunc) Render(snap game.Snapshot) { f(snap) }

// EffectSinkFunc adapts a function to EffectSink.
type EffectSinkFunc func(Effects)

// HandleEffects calls f(fx).
func (f EffectSinkFunc) HandleEffects(fx Effects) { f(fx) }

// Effects is the side-effect view of one tick. It is only published for
// ticks where something happened.
type Effects struct {
	SessionID string        `json:"session_id"`
	Tick      uint64        `json:"tick"`
	Events    []game.Event  `json:"events"`
	Combo     bool          `json:"combo"`
	Over      bool          `json:"over"`
	Cause     game.EndCause `json:"cause"`
	Score     int           `json:"score"`
}

func effectsOf(snap game.Snapshot, sessionID string) (Effects, bool) {
	if len(snap.Events) == 0 && !snap.Combo && !snap.Ended {
		return Effects{}, false
	}
	return Effects{
		SessionID: sessionID,
		Tick:      snap.Tick,
		Events:    snap.Events,
		Combo:     snap.Combo,
		Over:      snap.Ended,
		Cause:     snap.Cause,
		Score:     snap.Score,
	}, true
}

// queue is a bounded, drop-on-full mailbox with one consumer goroutine.
type queue[T any] struct {
	name    string
	ch      chan T
	metrics *metrics.Manager

	mu      sync.Mutex
	closed  bool
	dropped int
	wg      sync.WaitGroup
}

func newQueue[T any](name string, size int, consume func(T), m *metrics.Manager) *queue[T] {
	q := &queue[T]{
		name:    name,
		ch:      make(chan T, size),
		metrics: m,
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for v := range q.ch {
			consume(v)
		}
	}()
	return q
}

// offer enqueues v without blocking and reports whether it was accepted.
func (q *queue[T]) offer(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	select {
	case q.ch <- v:
		return true
	default:
		q.dropped++
		q.metrics.Dropped(q.name)
		return false
	}
}

// close stops accepting items and waits for the consumer to drain.
func (q *queue[T]) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *queue[T]) droppedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
