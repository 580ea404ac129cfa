package hook

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/katana/internal/app"
	"github.com/ayusman/katana/internal/game"
)

// DefaultConcurrency caps how many hook processes run at once.
const DefaultConcurrency = 4

// Dispatcher turns tick effects into hook runs. It implements app.EffectSink.
// Runs that would exceed the concurrency cap are dropped, not queued.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	slots    chan struct{}
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher creates a dispatcher over the discovered hooks.
func NewDispatcher(m *Manager, e *Executor, concurrency int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		manager:  m,
		executor: e,
		slots:    make(chan struct{}, concurrency),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// HandleEffects starts every hook subscribed to something in fx.
func (d *Dispatcher) HandleEffects(fx app.Effects) {
	for _, req := range requestsFor(fx) {
		for _, h := range d.manager.Subscribers(req.Event) {
			d.run(h, req)
		}
	}
}

func (d *Dispatcher) run(h *Hook, req Request) {
	select {
	case d.slots <- struct{}{}:
	default:
		log.Printf("Hook %s skipped for %s: too many hooks running", h.Manifest.Name, req.Event)
		return
	}

	req.Config = h.Manifest.Config
	d.wg.Add(1)
	go func() {
		defer func() {
			<-d.slots
			d.wg.Done()
		}()

		resp, err := d.executor.Execute(d.ctx, h, &req)
		if err != nil {
			log.Printf("Hook %s on %s: %v", h.Manifest.Name, req.Event, err)
			return
		}
		if !resp.Success {
			log.Printf("Hook %s on %s reported: %s", h.Manifest.Name, req.Event, resp.Error)
		}
	}()
}

// Close cancels running hooks and waits for them to exit.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}

// Wait blocks until every started hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func requestsFor(fx app.Effects) []Request {
	base := Request{SessionID: fx.SessionID, Tick: fx.Tick, Score: fx.Score}

	var reqs []Request
	for _, ev := range fx.Events {
		req := base
		req.Kind = ev.Kind
		switch ev.Type {
		case game.EventSliced:
			req.Event = EventSliced
		case game.EventHazardHit:
			req.Event = EventHazardHit
		case game.EventMissed:
			req.Event = EventMissed
		default:
			continue
		}
		reqs = append(reqs, req)
	}

	if fx.Combo {
		req := base
		req.Event = EventCombo
		reqs = append(reqs, req)
	}
	if fx.Over {
		req := base
		req.Event = EventGameOver
		req.Cause = fx.Cause.String()
		reqs = append(reqs, req)
	}
	return reqs
}
