// Package tray provides a system tray control surface for the Katana game.
package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/katana/internal/game"
)

// Controls is the session control surface. *app.App implements it.
type Controls interface {
	Start() error
	Toggle() error
	Reset() error
}

// Tray represents the system tray application. It implements app.Renderer
// so the title follows the score.
type Tray struct {
	ctl        Controls
	onScores   func()
	onQuit     func()
	mu         sync.RWMutex
	lastState  game.State
	lastScore  int
	haveRender bool

	// Menu items stored for later updates
	menuStart  *systray.MenuItem
	menuPause  *systray.MenuItem
	menuReset  *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray driving ctl.
func New(ctl Controls) *Tray {
	return &Tray{ctl: ctl}
}

// OnScores sets the callback function to be called when the scores menu item is clicked.
func (t *Tray) OnScores(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onScores = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Katana")
	systray.SetTooltip("Katana hand-tracking arcade")

	t.mu.Lock()
	t.menuStart = systray.AddMenuItem("Start", "Start a new game")
	t.menuPause = systray.AddMenuItem("Pause", "Pause or resume the game")
	t.menuReset = systray.AddMenuItem("Back to Menu", "Discard the game and return to the menu")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(statusText(game.Snapshot{}), "Current session")
	t.menuStatus.Disable()
	systray.AddSeparator()
	t.mu.Unlock()

	menuScores := systray.AddMenuItem("High Scores...", "Open the score history in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Katana")

	t.applyMenu(game.StateReady)

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuStart.ClickedCh:
				t.control("start", t.ctl.Start)
			case <-t.menuPause.ClickedCh:
				t.control("pause", t.ctl.Toggle)
			case <-t.menuReset.ClickedCh:
				t.control("reset", t.ctl.Reset)
			case <-menuScores.ClickedCh:
				t.handleScores()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func (t *Tray) control(name string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("Tray %s: %v", name, err)
	}
}

// Render updates the title and menu from a snapshot. Menu updates happen
// only when the state or score changed, and not before the menu exists.
func (t *Tray) Render(snap game.Snapshot) {
	t.mu.Lock()
	if t.menuStatus == nil {
		t.mu.Unlock()
		return
	}
	changed := !t.haveRender || snap.State != t.lastState || snap.Score != t.lastScore
	t.lastState, t.lastScore, t.haveRender = snap.State, snap.Score, true
	t.mu.Unlock()

	if !changed {
		return
	}

	systray.SetTitle(titleText(snap))
	t.mu.RLock()
	t.menuStatus.SetTitle(statusText(snap))
	t.mu.RUnlock()
	t.applyMenu(snap.State)
}

func (t *Tray) applyMenu(state game.State) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := menuFor(state)
	setEnabled(t.menuStart, m.start)
	setEnabled(t.menuPause, m.pause)
	setEnabled(t.menuReset, m.reset)
	t.menuPause.SetTitle(m.pauseTitle)
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

// handleScores handles the scores menu item click.
func (t *Tray) handleScores() {
	t.mu.RLock()
	callback := t.onScores
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

type menuState struct {
	start, pause, reset bool
	pauseTitle          string
}

func menuFor(state game.State) menuState {
	switch state {
	case game.StatePlaying:
		return menuState{pause: true, reset: true, pauseTitle: "Pause"}
	case game.StatePaused:
		return menuState{pause: true, reset: true, pauseTitle: "Resume"}
	case game.StateOver:
		return menuState{reset: true, pauseTitle: "Pause"}
	default:
		return menuState{start: true, pauseTitle: "Pause"}
	}
}

func titleText(snap game.Snapshot) string {
	if snap.State == game.StateReady {
		return "Katana"
	}
	return fmt.Sprintf("Katana %d", snap.Score)
}

func statusText(snap game.Snapshot) string {
	switch snap.State {
	case game.StatePlaying, game.StatePaused:
		return fmt.Sprintf("%s: score %d, missed %d/%d", snap.State, snap.Score, snap.Missed, snap.MissCap)
	case game.StateOver:
		return fmt.Sprintf("Game over (%s): score %d", snap.Cause, snap.Score)
	default:
		return "Ready"
	}
}
