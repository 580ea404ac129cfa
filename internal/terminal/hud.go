// Package terminal draws the game in a terminal and maps keys to session
// controls.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/katana/internal/app"
	"github.com/ayusman/katana/internal/game"
)

// Controls is the control surface the HUD drives. *app.App implements it.
type Controls interface {
	Start() error
	Toggle() error
	Reset() error
	Snapshot() game.Snapshot
}

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleCombo   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleOver    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
	stylePointer = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleStale   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHazard  = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
)

var kindStyles = map[string]tcell.Style{
	"apple":      tcell.StyleDefault.Foreground(tcell.ColorRed),
	"banana":     tcell.StyleDefault.Foreground(tcell.ColorYellow),
	"peach":      tcell.StyleDefault.Foreground(tcell.ColorOrange),
	"strawberry": tcell.StyleDefault.Foreground(tcell.ColorDeepPink),
	"watermelon": tcell.StyleDefault.Foreground(tcell.ColorGreen),
}

// HUD renders snapshots onto a tcell screen. It implements app.Renderer.
// The caller owns the screen and must Init and Fini it.
type HUD struct {
	screen     tcell.Screen
	ctl        Controls
	comboBonus int

	mu   sync.Mutex
	snap game.Snapshot
}

// New creates a HUD drawing on screen. comboBonus is the value shown in
// the combo banner.
func New(screen tcell.Screen, ctl Controls, comboBonus int) *HUD {
	return &HUD{screen: screen, ctl: ctl, comboBonus: comboBonus}
}

// Render draws snap.
func (h *HUD) Render(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
	h.draw()
}

// Run handles keyboard input until the user quits, ctx is cancelled or the
// game loop stops.
func (h *HUD) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	h.Render(h.ctl.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				quit, err := h.handleKey(ev)
				if errors.Is(err, app.ErrStopped) || quit {
					return nil
				}
			case *tcell.EventResize:
				h.screen.Sync()
				h.Render(h.ctl.Snapshot())
			}
		}
	}
}

// handleKey applies one key press. Controls that do not apply in the
// current state are ignored.
func (h *HUD) handleKey(ev *tcell.EventKey) (quit bool, err error) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyRune:
	default:
		return false, nil
	}

	state := h.ctl.Snapshot().State
	switch ev.Rune() {
	case 'q', 'Q':
		return true, nil
	case ' ':
		if state == game.StateReady {
			err = h.ctl.Start()
		}
	case 'p', 'P':
		if state == game.StatePlaying || state == game.StatePaused {
			err = h.ctl.Toggle()
		}
	case 'r', 'R':
		if state != game.StateReady {
			err = h.ctl.Reset()
		}
	}
	return false, err
}

func (h *HUD) draw() {
	s := h.screen
	snap := h.snap
	w, ht := s.Size()
	s.Clear()
	if w <= 0 || ht <= 1 || snap.FieldWidth <= 0 || snap.FieldHeight <= 0 {
		s.Show()
		return
	}

	// Row 0 is the status line; the field fills the rest.
	toCell := func(x, y float64) (int, int) {
		cx := int(x / snap.FieldWidth * float64(w))
		cy := 1 + int(y/snap.FieldHeight*float64(ht-1))
		return cx, cy
	}

	for _, t := range snap.Targets {
		cx, cy := toCell(t.X+t.Width/2, t.Y+t.Height/2)
		if cy < 1 || cy >= ht || cx < 0 || cx >= w {
			continue
		}
		if t.Category == game.Hazard {
			s.SetContent(cx, cy, '@', nil, styleHazard)
			continue
		}
		style, ok := kindStyles[t.Kind]
		if !ok {
			style = tcell.StyleDefault
		}
		r := 'o'
		if t.Kind != "" {
			r = []rune(t.Kind)[0]
		}
		s.SetContent(cx, cy, r, nil, style)
	}

	// A carried-over hand is drawn dimmed.
	pointerStyle := stylePointer
	if snap.HandStale {
		pointerStyle = styleStale
	}
	for _, p := range snap.Pointers {
		cx, cy := toCell(p.X, p.Y)
		if cy >= 1 && cy < ht && cx >= 0 && cx < w {
			s.SetContent(cx, cy, '+', nil, pointerStyle)
		}
	}

	drawText(s, 0, 0, styleHUD, fmt.Sprintf("Score: %d  Missed: %d/%d", snap.Score, snap.Missed, snap.MissCap))
	if snap.ComboActive {
		combo := fmt.Sprintf("+%d COMBO!", h.comboBonus)
		drawText(s, w-len(combo), 0, styleCombo, combo)
	}

	switch snap.State {
	case game.StateReady:
		drawBanner(s, styleBanner, "KATANA", "SPACE start   Q quit")
	case game.StatePaused:
		drawBanner(s, styleBanner, "PAUSED", "P resume   R reset   Q quit")
	case game.StateOver:
		title := "GAME OVER"
		if snap.Cause == game.EndHazard {
			title = "BOOM! GAME OVER"
		}
		drawBanner(s, styleOver, title, fmt.Sprintf("Score %d   R menu   Q quit", snap.Score))
	}

	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// drawBanner centers lines in the middle of the screen, padded to a box.
func drawBanner(s tcell.Screen, style tcell.Style, lines ...string) {
	w, ht := s.Size()

	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	width += 4

	top := ht/2 - len(lines)/2
	left := (w - width) / 2
	for i, l := range lines {
		pad := width - len([]rune(l))
		row := strings.Repeat(" ", pad/2) + l + strings.Repeat(" ", pad-pad/2)
		drawText(s, left, top+i, style, row)
	}
}
