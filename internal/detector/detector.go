package detector

import (
	"strconv"

	"gocv.io/x/gocv"
)

// Detector wraps a hand landmark model.
type Detector interface {
	// Detect returns the hands found in frame, or an empty slice when none are.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds the model thresholds passed to the landmark service.
type Config struct {
	// MaxHands caps how many hands the model reports per frame.
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0). The
	// adapter also drops hands scoring below it.
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig mirrors the MediaPipe Hands defaults.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// args renders the thresholds as service command-line flags.
func (c Config) args() []string {
	return []string{
		"--max-hands", strconv.Itoa(c.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(c.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConf, 'f', -1, 64),
	}
}
