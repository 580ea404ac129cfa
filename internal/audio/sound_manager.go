// Package audio plays the game's sound effects through beep.
package audio

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/ayusman/katana/internal/app"
	"github.com/ayusman/katana/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Sound identifies one effect.
type Sound int

const (
	SoundSlice Sound = iota
	SoundExplode
	SoundCombo
	SoundGameOver
)

func (s Sound) String() string {
	switch s {
	case SoundSlice:
		return "slice"
	case SoundExplode:
		return "explode"
	case SoundCombo:
		return "combo"
	case SoundGameOver:
		return "game_over"
	}
	return fmt.Sprintf("sound(%d)", int(s))
}

// assetFiles names the optional recordings looked up in the sounds directory.
var assetFiles = map[Sound]string{
	SoundSlice:   "slice.mp3",
	SoundExplode: "explode.mp3",
}

// SoundManager turns game effects into sounds. Recorded assets are used
// when present; anything missing falls back to a synthesized effect.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	buffers     map[Sound]*beep.Buffer
	volume      float64
	initialized bool
}

// NewSoundManager creates a manager. Call Load and Initialize before use.
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:   &beep.Mixer{},
		buffers: make(map[Sound]*beep.Buffer),
		volume:  volume,
	}
}

// Load decodes the recorded effects found in dir. A missing or unreadable
// file is logged and that effect stays synthesized; Load itself never fails.
func (sm *SoundManager) Load(dir string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for sound, name := range assetFiles {
		path := filepath.Join(dir, name)
		buf, err := loadMP3(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Printf("Sound %s not found at %s, using synthesized effect", sound, path)
			} else {
				log.Printf("Sound %s unusable (%v), using synthesized effect", sound, err)
			}
			continue
		}
		sm.buffers[sound] = buf
	}
}

func loadMP3(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate == sampleRate {
		buf.Append(streamer)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	}
	return buf, nil
}

// Initialize opens the audio device.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything and detaches from the device.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// Play starts sound on the mixer. It is a no-op before Initialize.
func (sm *SoundManager) Play(sound Sound) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	s := sm.streamer(sound)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// streamer builds a fresh stream for sound. The caller holds sm.mu.
func (sm *SoundManager) streamer(sound Sound) beep.Streamer {
	var s beep.Streamer
	if buf, ok := sm.buffers[sound]; ok {
		s = buf.Streamer(0, buf.Len())
	} else {
		switch sound {
		case SoundSlice:
			s = synthSlice(sampleRate)
		case SoundExplode:
			s = synthExplosion(sampleRate)
		case SoundCombo:
			s = synthCombo(sampleRate)
		case SoundGameOver:
			s = synthGameOver(sampleRate)
		default:
			return nil
		}
	}
	return newVolume(s, sm.volume)
}

// SetVolume changes the volume for sounds started from now on. Negative
// values are treated as silence.
func (sm *SoundManager) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	sm.mu.Lock()
	sm.volume = volume
	sm.mu.Unlock()
}

// Volume returns the current volume.
func (sm *SoundManager) Volume() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.volume
}

// HandleEffects plays the sounds for one tick: at most one slice sound no
// matter how many targets were cut, plus the combo chime and the ending.
func (sm *SoundManager) HandleEffects(fx app.Effects) {
	for _, sound := range soundsFor(fx) {
		sm.Play(sound)
	}
}

func soundsFor(fx app.Effects) []Sound {
	var (
		sounds         []Sound
		sliced, hazard bool
	)
	for _, ev := range fx.Events {
		switch ev.Type {
		case game.EventSliced:
			sliced = true
		case game.EventHazardHit:
			hazard = true
		}
	}

	if sliced {
		sounds = append(sounds, SoundSlice)
	}
	if fx.Combo {
		sounds = append(sounds, SoundCombo)
	}
	if hazard {
		sounds = append(sounds, SoundExplode)
	}
	if fx.Over && fx.Cause == game.EndMisses {
		sounds = append(sounds, SoundGameOver)
	}
	return sounds
}
