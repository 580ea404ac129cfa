// Package config defines the Katana runtime configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors returned by Validate.
var (
	ErrInvalidTickRate = errors.New("tick_rate must be positive")
	ErrInvalidField    = errors.New("field width and height must be positive")
	ErrInvalidGame     = errors.New("invalid game parameters")
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080". Empty disables the server.
	Addr string `koanf:"addr"`

	// DataDir holds the results database.
	DataDir string `koanf:"data_dir"`

	// SoundsDir is searched for slice.mp3 and explode.mp3.
	SoundsDir string `koanf:"sounds_dir"`

	// HooksDir is scanned for hook.json manifests.
	HooksDir string `koanf:"hooks_dir"`

	// UI selects the local control surface: "terminal", "tray" or "none".
	UI string `koanf:"ui"`

	// Audio enables the sound effects sink.
	Audio bool `koanf:"audio"`

	Camera   CameraConfig   `koanf:"camera"`
	Detector DetectorConfig `koanf:"detector"`
	Game     GameConfig     `koanf:"game"`
}

// CameraConfig controls frame acquisition and preprocessing.
type CameraConfig struct {
	DeviceID   int     `koanf:"device_id"`
	Width      int     `koanf:"width"`
	Height     int     `koanf:"height"`
	Mirror     bool    `koanf:"mirror"`
	Contrast   float64 `koanf:"contrast"`   // alpha
	Brightness float64 `koanf:"brightness"` // beta
}

// DetectorConfig controls the landmark detector.
type DetectorConfig struct {
	MaxHands        int     `koanf:"max_hands"`
	MinConfidence   float64 `koanf:"min_confidence"`
	MinTrackingConf float64 `koanf:"min_tracking_confidence"`
	// Replay names a recorded landmark sequence to use instead of the camera model.
	Replay string `koanf:"replay"`
}

// GameConfig holds the pipeline and game rule parameters. Tick counts assume TickRate.
type GameConfig struct {
	TickRate          int      `koanf:"tick_rate"`
	FieldWidth        float64  `koanf:"field_width"`
	FieldHeight       float64  `koanf:"field_height"`
	LockThreshold     int      `koanf:"lock_threshold"`
	Fingertips        []int    `koanf:"fingertips"`
	SpawnInterval     int      `koanf:"spawn_interval"`
	SpawnMargin       float64  `koanf:"spawn_margin"`
	SpawnY            float64  `koanf:"spawn_y"`
	MinSpeed          float64  `koanf:"min_speed"`
	MaxSpeed          float64  `koanf:"max_speed"`
	TargetSize        float64  `koanf:"target_size"`
	HazardProbability float64  `koanf:"hazard_probability"`
	Kinds             []string `koanf:"kinds"`
	MissCap           int      `koanf:"miss_cap"`
	ComboWindowMs     int      `koanf:"combo_window_ms"`
	ComboBonus        int      `koanf:"combo_bonus"`
	ComboDisplayMs    int      `koanf:"combo_display_ms"`
	Seed              uint64   `koanf:"seed"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:      ":8080",
		DataDir:   "",
		SoundsDir: "sounds",
		HooksDir:  "",
		UI:        "terminal",
		Audio:     true,
		Camera: CameraConfig{
			DeviceID:   0,
			Width:      1280,
			Height:     720,
			Mirror:     true,
			Contrast:   1.8,
			Brightness: 50,
		},
		Detector: DetectorConfig{
			MaxHands:        2,
			MinConfidence:   0.5,
			MinTrackingConf: 0.5,
		},
		Game: DefaultGame(),
	}
}

// DefaultGame returns the default game rules, tuned for a 30 Hz tick.
func DefaultGame() GameConfig {
	return GameConfig{
		TickRate:          30,
		FieldWidth:        1200,
		FieldHeight:       1000,
		LockThreshold:     6,
		Fingertips:        []int{8, 12, 16, 20},
		SpawnInterval:     30,
		SpawnMargin:       100,
		SpawnY:            -50,
		MinSpeed:          6,
		MaxSpeed:          12,
		TargetSize:        100,
		HazardProbability: 0.1,
		Kinds:             []string{"apple", "banana", "peach", "strawberry", "watermelon"},
		MissCap:           3,
		ComboWindowMs:     800,
		ComboBonus:        3,
		ComboDisplayMs:    1000,
	}
}

// TickInterval is the wall-clock duration of one tick.
func (g GameConfig) TickInterval() time.Duration {
	if g.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(g.TickRate)
}

// ComboWindow returns the trailing combo window.
func (g GameConfig) ComboWindow() time.Duration {
	return time.Duration(g.ComboWindowMs) * time.Millisecond
}

// ComboDisplay returns how long the combo flag stays active.
func (g GameConfig) ComboDisplay() time.Duration {
	return time.Duration(g.ComboDisplayMs) * time.Millisecond
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	return c.Game.Validate()
}

// Validate checks the game rules for values the pipeline cannot run with.
func (g GameConfig) Validate() error {
	if g.TickRate <= 0 {
		return ErrInvalidTickRate
	}
	if g.FieldWidth <= 0 || g.FieldHeight <= 0 {
		return ErrInvalidField
	}
	switch {
	case g.LockThreshold <= 0:
		return fmt.Errorf("%w: lock_threshold must be positive", ErrInvalidGame)
	case g.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn_interval must be positive", ErrInvalidGame)
	case g.MissCap <= 0:
		return fmt.Errorf("%w: miss_cap must be positive", ErrInvalidGame)
	case g.ComboWindowMs <= 0:
		return fmt.Errorf("%w: combo_window_ms must be positive", ErrInvalidGame)
	case g.HazardProbability < 0 || g.HazardProbability > 1:
		return fmt.Errorf("%w: hazard_probability must be within [0,1]", ErrInvalidGame)
	case g.MinSpeed <= 0:
		return fmt.Errorf("%w: min_speed must be positive", ErrInvalidGame)
	case g.MinSpeed > g.MaxSpeed:
		return fmt.Errorf("%w: min_speed exceeds max_speed", ErrInvalidGame)
	case 2*g.SpawnMargin > g.FieldWidth:
		return fmt.Errorf("%w: spawn_margin leaves no room to spawn", ErrInvalidGame)
	}
	return nil
}
