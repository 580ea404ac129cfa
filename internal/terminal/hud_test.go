package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/katana/internal/detector"
	"github.com/ayusman/katana/internal/game"
)

type fakeControls struct {
	snap  game.Snapshot
	calls []string
}

func (f *fakeControls) Start() error  { f.calls = append(f.calls, "start"); return nil }
func (f *fakeControls) Toggle() error { f.calls = append(f.calls, "toggle"); return nil }
func (f *fakeControls) Reset() error  { f.calls = append(f.calls, "reset"); return nil }

func (f *fakeControls) Snapshot() game.Snapshot { return f.snap }

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error = %v", err)
	}
	screen.SetSize(40, 12)
	t.Cleanup(screen.Fini)
	return screen
}

// row returns the text on line y of the simulated screen.
func row(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

func cell(screen tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := screen.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func screenText(screen tcell.SimulationScreen) string {
	_, _, h := screen.GetContents()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = row(screen, y)
	}
	return strings.Join(lines, "\n")
}

// field maps 10 field units to one column and 10 to one row.
func field(state game.State) game.Snapshot {
	return game.Snapshot{State: state, MissCap: 3, FieldWidth: 400, FieldHeight: 110}
}

func TestHUD_StatusLine(t *testing.T) {
	screen := newTestScreen(t)
	hud := New(screen, &fakeControls{}, 3)

	snap := field(game.StatePlaying)
	snap.Score, snap.Missed = 5, 1
	hud.Render(snap)

	if got := row(screen, 0); !strings.HasPrefix(got, "Score: 5  Missed: 1/3") {
		t.Errorf("status line = %q", got)
	}
	if strings.Contains(row(screen, 0), "COMBO") {
		t.Error("combo banner shown without an active combo")
	}

	snap.ComboActive = true
	hud.Render(snap)

	if got := row(screen, 0); !strings.HasSuffix(got, "+3 COMBO!") {
		t.Errorf("status line = %q, want combo banner on the right", got)
	}
}

func TestHUD_DrawsTargetsAndPointers(t *testing.T) {
	screen := newTestScreen(t)
	hud := New(screen, &fakeControls{}, 3)

	snap := field(game.StatePlaying)
	snap.Targets = []game.TargetView{
		{ID: 1, Category: game.Normal, Kind: "apple", X: 105, Y: 55, Width: 20},
		{ID: 2, Category: game.Hazard, Kind: game.HazardKind, X: 305, Y: 0, Width: 20},
	}
	snap.Pointers = []detector.Point2D{{X: 205, Y: 0}}
	hud.Render(snap)

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{name: "fruit", x: 11, y: 6, want: 'a'},
		{name: "hazard", x: 31, y: 1, want: '@'},
		{name: "pointer", x: 20, y: 1, want: '+'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cell(screen, tt.x, tt.y); got != tt.want {
				t.Errorf("cell(%d,%d) = %q, want %q\n%s", tt.x, tt.y, got, tt.want, screenText(screen))
			}
		})
	}
}

func TestHUD_PointerStyleFollowsStaleness(t *testing.T) {
	tests := []struct {
		name  string
		stale bool
		want  tcell.Style
	}{
		{name: "fresh hand", stale: false, want: stylePointer},
		{name: "stale hand", stale: true, want: styleStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newTestScreen(t)
			snap := field(game.StatePlaying)
			snap.HandHeld, snap.HandStale = true, tt.stale
			snap.Pointers = []detector.Point2D{{X: 205, Y: 55}}
			New(screen, &fakeControls{}, 3).Render(snap)

			cells, w, _ := screen.GetContents()
			c := cells[6*w+20]
			if len(c.Runes) == 0 || c.Runes[0] != '+' {
				t.Fatalf("no pointer at (20,6)\n%s", screenText(screen))
			}
			if c.Style != tt.want {
				t.Errorf("pointer style = %v, want %v", c.Style, tt.want)
			}
		})
	}
}

func TestHUD_Banners(t *testing.T) {
	tests := []struct {
		name  string
		snap  game.Snapshot
		want  string
		avoid string
	}{
		{name: "ready", snap: field(game.StateReady), want: "SPACE start"},
		{name: "playing", snap: field(game.StatePlaying), avoid: "PAUSED"},
		{name: "paused", snap: field(game.StatePaused), want: "PAUSED"},
		{name: "over by misses", snap: func() game.Snapshot {
			s := field(game.StateOver)
			s.Cause, s.Score = game.EndMisses, 9
			return s
		}(), want: "GAME OVER", avoid: "BOOM"},
		{name: "over by hazard", snap: func() game.Snapshot {
			s := field(game.StateOver)
			s.Cause = game.EndHazard
			return s
		}(), want: "BOOM! GAME OVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newTestScreen(t)
			New(screen, &fakeControls{}, 3).Render(tt.snap)

			text := screenText(screen)
			if tt.want != "" && !strings.Contains(text, tt.want) {
				t.Errorf("screen missing %q:\n%s", tt.want, text)
			}
			if tt.avoid != "" && strings.Contains(text, tt.avoid) {
				t.Errorf("screen unexpectedly shows %q:\n%s", tt.avoid, text)
			}
		})
	}
}

func TestHUD_HandleKey(t *testing.T) {
	tests := []struct {
		name      string
		state     game.State
		key       tcell.Key
		r         rune
		wantCalls []string
		wantQuit  bool
	}{
		{name: "space starts from ready", state: game.StateReady, key: tcell.KeyRune, r: ' ', wantCalls: []string{"start"}},
		{name: "space ignored while playing", state: game.StatePlaying, key: tcell.KeyRune, r: ' '},
		{name: "p pauses", state: game.StatePlaying, key: tcell.KeyRune, r: 'p', wantCalls: []string{"toggle"}},
		{name: "P resumes", state: game.StatePaused, key: tcell.KeyRune, r: 'P', wantCalls: []string{"toggle"}},
		{name: "p ignored when over", state: game.StateOver, key: tcell.KeyRune, r: 'p'},
		{name: "r resets after game over", state: game.StateOver, key: tcell.KeyRune, r: 'r', wantCalls: []string{"reset"}},
		{name: "r ignored in ready", state: game.StateReady, key: tcell.KeyRune, r: 'r'},
		{name: "q quits", state: game.StatePlaying, key: tcell.KeyRune, r: 'q', wantQuit: true},
		{name: "escape quits", state: game.StateReady, key: tcell.KeyEscape, wantQuit: true},
		{name: "arrows ignored", state: game.StatePlaying, key: tcell.KeyUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := &fakeControls{snap: game.Snapshot{State: tt.state}}
			hud := New(newTestScreen(t), ctl, 3)

			quit, err := hud.handleKey(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone))
			if err != nil {
				t.Fatalf("handleKey() error = %v", err)
			}
			if quit != tt.wantQuit {
				t.Errorf("quit = %v, want %v", quit, tt.wantQuit)
			}
			if strings.Join(ctl.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Errorf("calls = %v, want %v", ctl.calls, tt.wantCalls)
			}
		})
	}
}

func TestHUD_RunQuitsOnKey(t *testing.T) {
	screen := newTestScreen(t)
	hud := New(screen, &fakeControls{snap: field(game.StateReady)}, 3)

	done := make(chan error, 1)
	go func() {
		done <- hud.Run(context.Background())
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after q")
	}
}

func TestHUD_RunStopsOnContext(t *testing.T) {
	hud := New(newTestScreen(t), &fakeControls{}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- hud.Run(ctx)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
