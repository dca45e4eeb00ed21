// Package geometry converts between absolute pixel positions and the
// percentage coordinates stored on annotations. Percentages are relative to
// the media bounding box, so a viewer rendering at a different size than the
// editor reproduces the same relative placement.
package geometry

// Point is a position expressed as percentages of the media bounding box.
// Both axes are kept inside [0,100].
type Point struct {
	X float64 `json:"x"` // horizontal position in percent
	Y float64 `json:"y"` // vertical position in percent
}

// Clamp forces a single percentage value into the [0,100] range.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampPoint returns p with both axes clamped into [0,100].
func ClampPoint(p Point) Point {
	return Point{X: Clamp(p.X), Y: Clamp(p.Y)}
}

// Normalize converts an absolute pixel position inside a container of the
// given size into percentage coordinates. A container with a zero or
// negative dimension cannot produce a meaningful percentage, so the previous
// point is returned unchanged instead of dividing by zero.
func Normalize(pixelX, pixelY, width, height float64, prev Point) Point {
	if width <= 0 || height <= 0 {
		return prev
	}
	return Point{
		X: Clamp(pixelX / width * 100),
		Y: Clamp(pixelY / height * 100),
	}
}

// Denormalize is the inverse of Normalize: it maps stored percentages back
// to pixel coordinates for the current container size.
func Denormalize(p Point, width, height float64) (pixelX, pixelY float64) {
	return p.X / 100 * width, p.Y / 100 * height
}
