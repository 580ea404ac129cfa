package tracking

import (
	"testing"

	"github.com/ayusman/katana/internal/detector"
)

func TestExtract(t *testing.T) {
	points := make([]detector.Point2D, 10)
	for i := range points {
		points[i] = detector.Point2D{X: float64(i), Y: float64(i * 10)}
	}
	partial := detector.LandmarkFrame{Points: points, Detected: true}

	tests := []struct {
		name    string
		hand    detector.LandmarkFrame
		indices []int
		wantX   []float64
	}{
		{
			name:    "keeps index order",
			hand:    partial,
			indices: []int{8, 2, 5},
			wantX:   []float64{8, 2, 5},
		},
		{
			name:    "skips out of range indices",
			hand:    partial,
			indices: []int{8, 12, 16, 20},
			wantX:   []float64{8},
		},
		{
			name:    "skips negative indices",
			hand:    partial,
			indices: []int{-1, 0},
			wantX:   []float64{0},
		},
		{
			name:    "empty hand yields nothing",
			hand:    detector.LandmarkFrame{},
			indices: []int{0, 1},
			wantX:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.hand, tt.indices)

			if len(got) != len(tt.wantX) {
				t.Fatalf("got %d pointers, want %d", len(got), len(tt.wantX))
			}
			for i, p := range got {
				if p.X != tt.wantX[i] {
					t.Errorf("pointer %d X = %f, want %f", i, p.X, tt.wantX[i])
				}
			}
		})
	}
}

func TestExtract_Fingertips(t *testing.T) {
	hand := detector.HandAt(0.5, 0.25)
	frame := hand.Project(1000, 1000)

	got := Extract(frame, detector.Fingertips)

	if len(got) != 4 {
		t.Fatalf("expected 4 fingertips, got %d", len(got))
	}
	for _, p := range got {
		if p.Y < 249.999 || p.Y > 250.001 {
			t.Errorf("fingertip Y = %f, want 250", p.Y)
		}
	}
}
