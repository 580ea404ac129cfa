package detector

import (
	"log"

	"gocv.io/x/gocv"
)

// Adapter turns a Detector into the per-tick contract of the pipeline:
// every call yields a LandmarkFrame, empty when no usable hand was found.
// Detector errors are absorbed and reported as an empty frame.
type Adapter struct {
	detector Detector
	width    float64
	height   float64
	minScore float64

	failing bool
	errors  int
}

// NewAdapter projects detections onto a width x height field. Hands scoring
// below minScore are ignored.
func NewAdapter(d Detector, width, height, minScore float64) *Adapter {
	return &Adapter{
		detector: d,
		width:    width,
		height:   height,
		minScore: minScore,
	}
}

// Detect runs the detector on frame and returns the first confident hand.
func (a *Adapter) Detect(frame *gocv.Mat) LandmarkFrame {
	if a.detector == nil {
		return LandmarkFrame{}
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.errors++
		if !a.failing {
			log.Printf("Hand detection failed, treating as no hand: %v", err)
			a.failing = true
		}
		return LandmarkFrame{}
	}
	a.failing = false

	for i := range hands {
		if hands[i].Score >= a.minScore {
			return hands[i].Project(a.width, a.height)
		}
	}
	return LandmarkFrame{}
}

// Errors returns how many detector calls have failed.
func (a *Adapter) Errors() int {
	return a.errors
}

// Close closes the wrapped detector.
func (a *Adapter) Close() error {
	if a.detector == nil {
		return nil
	}
	return a.detector.Close()
}
