package hook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/katana/internal/app"
	"github.com/ayusman/katana/internal/game"
)

func TestRequestsFor(t *testing.T) {
	fx := app.Effects{
		SessionID: "s1",
		Tick:      90,
		Score:     7,
		Events: []game.Event{
			{Type: game.EventSliced, Kind: "apple"},
			{Type: game.EventHazardHit, Kind: game.HazardKind},
		},
		Combo: true,
		Over:  true,
		Cause: game.EndHazard,
	}

	reqs := requestsFor(fx)

	want := []string{EventSliced, EventHazardHit, EventCombo, EventGameOver}
	if len(reqs) != len(want) {
		t.Fatalf("got %d requests, want %d", len(reqs), len(want))
	}
	for i, req := range reqs {
		if req.Event != want[i] {
			t.Errorf("request %d event = %s, want %s", i, req.Event, want[i])
		}
		if req.SessionID != "s1" || req.Tick != 90 || req.Score != 7 {
			t.Errorf("request %d lost the tick context: %+v", i, req)
		}
	}
	if reqs[0].Kind != "apple" {
		t.Errorf("slice kind = %q, want apple", reqs[0].Kind)
	}
	if reqs[3].Cause != game.EndHazard.String() {
		t.Errorf("game over cause = %q, want %q", reqs[3].Cause, game.EndHazard.String())
	}
}

func TestRequestsFor_Empty(t *testing.T) {
	if reqs := requestsFor(app.Effects{}); len(reqs) != 0 {
		t.Errorf("got %d requests for empty effects", len(reqs))
	}
}

func TestDispatcher_RunsSubscribedHooks(t *testing.T) {
	skipWindows(t)

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	writeHook(t, dir, "recorder", "cat >> '"+out+"'\necho >> '"+out+"'\necho '{\"success\":true}'\n", EventGameOver)

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	d := NewDispatcher(m, NewExecutor(5*time.Second), 2)
	defer d.Close()

	// No subscriber for slices.
	d.HandleEffects(app.Effects{Events: []game.Event{{Type: game.EventSliced}}})
	d.Wait()
	d.HandleEffects(app.Effects{SessionID: "s9", Score: 21, Over: true, Cause: game.EndMisses})
	d.Wait()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("hook did not run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("hook ran %d times, want 1", len(lines))
	}
	if !strings.Contains(lines[0], `"event":"game_over"`) || !strings.Contains(lines[0], `"session_id":"s9"`) {
		t.Errorf("hook received %s", lines[0])
	}
}

func TestDispatcher_DropsWhenBusy(t *testing.T) {
	skipWindows(t)

	dir := t.TempDir()
	writeHook(t, dir, "slow", "exec sleep 10\n", EventSliced)

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	d := NewDispatcher(m, NewExecutor(30*time.Second), 1)

	fx := app.Effects{Events: []game.Event{{Type: game.EventSliced}, {Type: game.EventSliced}}}
	d.HandleEffects(fx)

	if got := len(d.slots); got != 1 {
		t.Errorf("running hooks = %d, want 1", got)
	}

	start := time.Now()
	d.Close()
	if time.Since(start) > 5*time.Second {
		t.Error("Close() did not cancel running hooks")
	}
}
