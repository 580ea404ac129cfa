// Package testdata embeds recorded landmark sequences for tests.
//
// sweep.json is 60 ticks of a right hand tracing a figure across the field,
// with a 3-tick dropout at 20 (held) and an 8-tick dropout at 40 (longer
// than the default lock, so the hand is released). confidence.json has a
// confident hand, a 0.2-score hand, no hand, then a confident hand.
package testdata

import (
	"bytes"
	"embed"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/katana/internal/detector"
)

//go:embed replays/*.json
var replaysFS embed.FS

// Replay names.
const (
	Sweep      = "sweep.json"
	Confidence = "confidence.json"
)

// LoadReplay loads a recorded sequence by name. Nil entries are ticks
// without a hand.
func LoadReplay(name string) ([]*detector.HandLandmarks, error) {
	data, err := replaysFS.ReadFile("replays/" + name)
	if err != nil {
		return nil, fmt.Errorf("load replay %s: %w", name, err)
	}

	frames, err := detector.DecodeReplay(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode replay %s: %w", name, err)
	}
	return frames, nil
}

// BlankFrames returns n black frames for a mock camera. The caller closes them.
func BlankFrames(n, width, height int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
		frames[i] = &m
	}
	return frames
}

// CloseFrames closes every frame.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
