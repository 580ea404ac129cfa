package detector

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// ReplayDetector plays back a recorded landmark sequence, one entry per
// Detect call, ignoring the frame. A nil entry is a tick with no hand.
type ReplayDetector struct {
	mu     sync.Mutex
	frames []*HandLandmarks
	index  int
	loop   bool
}

// NewReplayDetector creates a detector over frames.
func NewReplayDetector(frames []*HandLandmarks, loop bool) *ReplayDetector {
	return &ReplayDetector{frames: frames, loop: loop}
}

// OpenReplay loads a recording written as a JSON array of hands or nulls.
func OpenReplay(path string, loop bool) (*ReplayDetector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	frames, err := DecodeReplay(f)
	if err != nil {
		return nil, fmt.Errorf("decode replay %s: %w", path, err)
	}
	return NewReplayDetector(frames, loop), nil
}

// DecodeReplay reads a JSON array of hands or nulls.
func DecodeReplay(r io.Reader) ([]*HandLandmarks, error) {
	var frames []*HandLandmarks
	if err := json.NewDecoder(r).Decode(&frames); err != nil {
		return nil, err
	}
	return frames, nil
}

// Detect returns the next recorded hand. Past the end it reports no hand
// unless looping.
func (d *ReplayDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.index >= len(d.frames) {
		if !d.loop || len(d.frames) == 0 {
			return nil, nil
		}
		d.index = 0
	}

	next := d.frames[d.index]
	d.index++

	if next == nil {
		return nil, nil
	}
	return []HandLandmarks{*next}, nil
}

// Remaining reports how many recorded entries are left before the end.
func (d *ReplayDetector) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames) - d.index
}

// Close is a no-op.
func (d *ReplayDetector) Close() error {
	return nil
}
