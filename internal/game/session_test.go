package game

import (
	"errors"
	"testing"
	"time"
)

func TestSession_Transitions(t *testing.T) {
	s := NewSession()
	if s.State != StateReady {
		t.Fatalf("new session state = %s, want ready", s.State)
	}

	steps := []struct {
		name    string
		op      func() error
		want    State
		wantErr bool
	}{
		{name: "pause before start", op: s.Pause, want: StateReady, wantErr: true},
		{name: "start", op: s.Start, want: StatePlaying},
		{name: "start twice", op: s.Start, want: StatePlaying, wantErr: true},
		{name: "pause", op: s.Pause, want: StatePaused},
		{name: "pause twice", op: s.Pause, want: StatePaused, wantErr: true},
		{name: "resume", op: s.Resume, want: StatePlaying},
		{name: "resume while playing", op: s.Resume, want: StatePlaying, wantErr: true},
	}

	for _, step := range steps {
		err := step.op()
		if step.wantErr {
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s: error = %v, want ErrInvalidTransition", step.name, err)
			}
		} else if err != nil {
			t.Errorf("%s: unexpected error %v", step.name, err)
		}
		if s.State != step.want {
			t.Errorf("%s: state = %s, want %s", step.name, s.State, step.want)
		}
	}
}

func TestSession_OverRejectsControls(t *testing.T) {
	s := playing()
	s.end(EndHazard)

	for name, op := range map[string]func() error{
		"start":  s.Start,
		"pause":  s.Pause,
		"resume": s.Resume,
	} {
		if err := op(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s on an over session: error = %v", name, err)
		}
	}
	if !s.Terminal() {
		t.Error("session should stay terminal")
	}
}

func TestComboWindow_Prune(t *testing.T) {
	var w ComboWindow
	for _, t0 := range []int{0, 100, 500, 900} {
		w.Push(ms(t0))
	}

	w.Prune(ms(900), 800*time.Millisecond)

	// 0 and 100 are >= 800ms old; 500 and 900 stay.
	if w.Len() != 2 {
		t.Errorf("Len() = %d after prune, want 2", w.Len())
	}

	w.Clear()
	if w.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", w.Len())
	}
}

func TestStateText(t *testing.T) {
	tests := []struct {
		v    interface{ MarshalText() ([]byte, error) }
		want string
	}{
		{StateReady, "ready"},
		{StatePlaying, "playing"},
		{StatePaused, "paused"},
		{StateOver, "over"},
		{EndHazard, "hazard"},
		{EndMisses, "misses"},
		{Hazard, "hazard"},
		{EventHazardHit, "hazard_hit"},
	}

	for _, tt := range tests {
		got, err := tt.v.MarshalText()
		if err != nil || string(got) != tt.want {
			t.Errorf("MarshalText() = %q, %v; want %q", got, err, tt.want)
		}
	}
}
