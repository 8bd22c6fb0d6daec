package planner

import "github.com/fuelroute/fuelroute/internal/geo"

// sampleSpacingMiles is the target spacing between consecutive samples.
const sampleSpacingMiles = 50

// SamplePoints reduces a dense route geometry to points spaced roughly
// every 50 miles. The stride is max(1, N / floor(D/50)); trips shorter
// than 50 miles degenerate to a single leading sample instead of dividing
// by zero. Ordering is preserved; the exact first and last geometry points
// are not guaranteed to appear.
func SamplePoints(geometry []geo.Coordinate, totalMiles float64) []geo.Coordinate {
	n := len(geometry)
	if n == 0 {
		return nil
	}

	intervals := int(totalMiles / sampleSpacingMiles)

	stride := n
	if intervals > 0 {
		stride = n / intervals
		if stride < 1 {
			stride = 1
		}
	}

	sampled := make([]geo.Coordinate, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		sampled = append(sampled, geometry[i])
	}
	return sampled
}
