// Package pitch maps continuous simulator coordinates onto discrete
// pitch-region labels.
package pitch

import "github.com/pitchside/matchcast/pkg/core"

// Classify returns the zone label for a pitch coordinate. The pitch is cut
// into independent horizontal and vertical tertiles; out-of-range input
// falls into the nearest edge tertile, so every coordinate classifies.
func Classify(pos core.Position) core.Zone {
	x := (pos.X() + core.FieldHalfLength) / (2 * core.FieldHalfLength)
	y := (pos.Y() + core.FieldHalfWidth) / (2 * core.FieldHalfWidth)

	var horizontal string
	switch {
	case x < 1.0/3:
		horizontal = "left"
	case x < 2.0/3:
		horizontal = "center"
	default:
		horizontal = "right"
	}

	var vertical string
	switch {
	case y < 1.0/3:
		vertical = "top"
	case y < 2.0/3:
		vertical = "middle"
	default:
		vertical = "bottom"
	}

	return core.Zone(horizontal + "_" + vertical)
}
