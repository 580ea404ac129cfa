// Package tracking stabilizes per-frame hand detections over time and
// reduces them to the pointer positions used for collision testing.
package tracking

import "github.com/ayusman/katana/internal/detector"

// DefaultLockThreshold is how many consecutive ticks without a detection a
// held hand survives (0.2 s at 30 Hz). The next empty tick releases it.
const DefaultLockThreshold = 6

// Stabilizer holds the last good detection across brief dropouts.
//
// A non-empty detection replaces the held hand and resets its age. An
// empty tick that finds the age below the lock threshold ages the hand by
// one and returns it unchanged. An empty tick that finds the age at the
// threshold releases the hand, and empty frames are returned until the
// next detection.
type Stabilizer struct {
	lockThreshold   int
	held            detector.LandmarkFrame
	framesSinceSeen int
}

// NewStabilizer creates a Stabilizer. Non-positive thresholds use the default.
func NewStabilizer(lockThreshold int) *Stabilizer {
	if lockThreshold <= 0 {
		lockThreshold = DefaultLockThreshold
	}
	return &Stabilizer{
		lockThreshold:   lockThreshold,
		framesSinceSeen: lockThreshold,
	}
}

// Update consumes this tick's raw detection and returns the authoritative hand.
func (s *Stabilizer) Update(raw detector.LandmarkFrame) detector.LandmarkFrame {
	if !raw.Empty() {
		s.held = raw
		s.framesSinceSeen = 0
		return s.held
	}

	if s.framesSinceSeen < s.lockThreshold {
		s.framesSinceSeen++
		return s.held
	}
	s.held = detector.LandmarkFrame{}
	return s.held
}

// Held returns the current authoritative hand without consuming a tick.
func (s *Stabilizer) Held() detector.LandmarkFrame {
	return s.held
}

// FramesSinceSeen returns the held hand's age in ticks, capped at the lock threshold.
func (s *Stabilizer) FramesSinceSeen() int {
	return s.framesSinceSeen
}

// Holding reports whether a hand is currently held, fresh or stale.
func (s *Stabilizer) Holding() bool {
	return !s.held.Empty()
}

// Stale reports whether the held hand is a carried-over detection.
func (s *Stabilizer) Stale() bool {
	return s.Holding() && s.framesSinceSeen > 0
}

// Reset clears the held hand.
func (s *Stabilizer) Reset() {
	s.held = detector.LandmarkFrame{}
	s.framesSinceSeen = s.lockThreshold
}
