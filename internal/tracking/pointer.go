package tracking

import "github.com/ayusman/katana/internal/detector"

// Extract selects the landmarks at indices, in order, as pointer positions.
// Indices outside the frame are skipped; an empty hand yields no pointers.
func Extract(hand detector.LandmarkFrame, indices []int) []detector.Point2D {
	if hand.Empty() {
		return nil
	}

	pointers := make([]detector.Point2D, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(hand.Points) {
			continue
		}
		pointers = append(pointers, hand.Points[idx])
	}
	return pointers
}
