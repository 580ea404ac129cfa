package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/katana/internal/app"
	"github.com/ayusman/katana/internal/game"
)

func TestSoundsFor(t *testing.T) {
	sliced := game.Event{Type: game.EventSliced}
	hazard := game.Event{Type: game.EventHazardHit}
	missed := game.Event{Type: game.EventMissed}

	tests := []struct {
		name string
		fx   app.Effects
		want []Sound
	}{
		{name: "nothing", fx: app.Effects{}, want: nil},
		{name: "many slices play once", fx: app.Effects{Events: []game.Event{sliced, sliced, sliced}}, want: []Sound{SoundSlice}},
		{name: "combo", fx: app.Effects{Events: []game.Event{sliced, sliced}, Combo: true}, want: []Sound{SoundSlice, SoundCombo}},
		{name: "hazard", fx: app.Effects{Events: []game.Event{hazard}, Over: true, Cause: game.EndHazard}, want: []Sound{SoundExplode}},
		{name: "missed is silent", fx: app.Effects{Events: []game.Event{missed}}, want: nil},
		{name: "miss cap", fx: app.Effects{Events: []game.Event{missed}, Over: true, Cause: game.EndMisses}, want: []Sound{SoundGameOver}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := soundsFor(tt.fx)
			if len(got) != len(tt.want) {
				t.Fatalf("soundsFor() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sound %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSoundManager_SynthesizedFallback(t *testing.T) {
	sm := NewSoundManager(1)
	sm.Load(t.TempDir())

	if len(sm.buffers) != 0 {
		t.Fatalf("expected no recorded sounds, got %d", len(sm.buffers))
	}

	for _, sound := range []Sound{SoundSlice, SoundExplode, SoundCombo, SoundGameOver} {
		t.Run(sound.String(), func(t *testing.T) {
			s := sm.streamer(sound)
			if s == nil {
				t.Fatal("streamer() returned nil")
			}

			// Every effect is finite and stays in range.
			buf := make([][2]float64, 512)
			total := 0
			for i := 0; i < 1000; i++ {
				n, ok := s.Stream(buf)
				for j := 0; j < n; j++ {
					if buf[j][0] < -2 || buf[j][0] > 2 {
						t.Fatalf("sample out of range: %f", buf[j][0])
					}
				}
				total += n
				if !ok {
					break
				}
			}
			if total == 0 || total >= 1000*512 {
				t.Errorf("streamed %d samples, want a short finite effect", total)
			}
		})
	}

	if sm.streamer(Sound(42)) != nil {
		t.Error("unknown sound should have no streamer")
	}
}

func TestSoundManager_BadAssetFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "slice.mp3"), []byte("not an mp3"), 0o644); err != nil {
		t.Fatal(err)
	}

	sm := NewSoundManager(1)
	sm.Load(dir)

	if _, ok := sm.buffers[SoundSlice]; ok {
		t.Error("corrupt asset should not be loaded")
	}
	if sm.streamer(SoundSlice) == nil {
		t.Error("slice should fall back to the synthesized effect")
	}
}

func TestSoundManager_PlayBeforeInitialize(t *testing.T) {
	sm := NewSoundManager(1)

	// Must not touch the speaker.
	sm.Play(SoundSlice)
	sm.HandleEffects(app.Effects{Events: []game.Event{{Type: game.EventHazardHit}}})
	sm.Cleanup()
}

func TestSoundManager_Device(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that opens the audio device")
	}

	sm := NewSoundManager(0.1)
	if err := sm.Initialize(); err != nil {
		t.Skipf("audio device not available: %v", err)
	}
	defer sm.Cleanup()

	sm.Play(SoundCombo)
}

func TestSoundManager_SetVolume(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "half", in: 0.5, want: 0.5},
		{name: "mute", in: 0, want: 0},
		{name: "negative is silent", in: -2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSoundManager(1)
			sm.SetVolume(tt.in)
			if got := sm.Volume(); got != tt.want {
				t.Errorf("Volume() = %v, want %v", got, tt.want)
			}
			if sm.streamer(SoundSlice) == nil {
				t.Error("streamer() returned nil")
			}
		})
	}
}
