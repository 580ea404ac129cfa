package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Preprocessing defaults. Frames are brightened as dst = |alpha*src + beta|.
const (
	DefaultContrast   = 1.8
	DefaultBrightness = 50
)

// ErrEmptyFrame is returned when Apply is given a nil or empty frame.
var ErrEmptyFrame = errors.New("empty frame")

// Preprocessor prepares camera frames for hand detection: an optional
// horizontal mirror, so the pointer moves the same way as the hand, followed
// by a contrast and brightness lift that helps detection in dim rooms.
type Preprocessor struct {
	mirror     bool
	contrast   float64
	brightness float64
	mirrored   gocv.Mat
	mu         sync.Mutex
}

// NewPreprocessor creates a Preprocessor. A non-positive contrast disables
// the enhancement step.
func NewPreprocessor(mirror bool, contrast, brightness float64) *Preprocessor {
	return &Preprocessor{
		mirror:     mirror,
		contrast:   contrast,
		brightness: brightness,
		mirrored:   gocv.NewMat(),
	}
}

// Apply returns a new processed frame. The input is left untouched and the
// caller owns the returned Mat.
func (p *Preprocessor) Apply(frame *gocv.Mat) (*gocv.Mat, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}

	src := *frame
	if p.mirror {
		gocv.Flip(*frame, &p.mirrored, 1)
		src = p.mirrored
	}

	out := gocv.NewMat()
	if p.contrast > 0 {
		gocv.ConvertScaleAbs(src, &out, p.contrast, p.brightness)
	} else {
		src.CopyTo(&out)
	}
	return &out, nil
}

// Mirror reports whether frames are flipped horizontally.
func (p *Preprocessor) Mirror() bool {
	return p.mirror
}

// Close releases the scratch buffer.
func (p *Preprocessor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mirrored.Close()
}
