// Package detector provides hand landmark detection and the adapter that turns
// detector output into per-tick landmark frames.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Fingertips lists the four non-thumb fingertip indices, in pointer order.
var Fingertips = []int{IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D is a landmark in normalized image coordinates (x, y in [0,1], z relative depth).
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Point2D is a position on the play field, in field pixels.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkFrame is one tick's landmark set for a single hand. A frame with
// Detected false carries no points.
type LandmarkFrame struct {
	Points   []Point2D
	Detected bool
}

// Empty reports whether the frame carries no landmarks.
func (f LandmarkFrame) Empty() bool {
	return !f.Detected || len(f.Points) == 0
}

// Project scales the normalized landmarks onto a width x height field,
// dropping depth.
func (h *HandLandmarks) Project(width, height float64) LandmarkFrame {
	if h == nil {
		return LandmarkFrame{}
	}

	points := make([]Point2D, NumLandmarks)
	for i, p := range h.Points {
		points[i] = Point2D{X: p.X * width, Y: p.Y * height}
	}

	return LandmarkFrame{Points: points, Detected: true}
}
