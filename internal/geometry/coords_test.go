package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 0.0, Clamp(0))
	assert.Equal(t, 42.5, Clamp(42.5))
	assert.Equal(t, 100.0, Clamp(100))
	assert.Equal(t, 100.0, Clamp(250.01))
}

func TestClampPoint(t *testing.T) {
	t.Parallel()

	p := ClampPoint(Point{X: -10, Y: 103})
	assert.Equal(t, Point{X: 0, Y: 100}, p)

	inside := ClampPoint(Point{X: 33.3, Y: 66.6})
	assert.Equal(t, Point{X: 33.3, Y: 66.6}, inside)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	// 480px into a 960px wide box is 50%.
	p := Normalize(480, 150, 960, 600, Point{})
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 25, p.Y, 1e-9)

	// Positions outside the box clamp rather than overflow.
	edge := Normalize(-20, 700, 960, 600, Point{})
	assert.Equal(t, Point{X: 0, Y: 100}, edge)
}

func TestNormalizeDegenerateBox(t *testing.T) {
	t.Parallel()

	prev := Point{X: 12, Y: 34}
	assert.Equal(t, prev, Normalize(100, 100, 0, 600, prev))
	assert.Equal(t, prev, Normalize(100, 100, 960, -1, prev))
}

func TestDenormalizeRoundTrip(t *testing.T) {
	t.Parallel()

	p := Normalize(240, 300, 960, 600, Point{})
	x, y := Denormalize(p, 960, 600)
	assert.InDelta(t, 240, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)

	// The same percentages map to different pixels at a different size.
	x2, y2 := Denormalize(p, 480, 300)
	assert.InDelta(t, 120, x2, 1e-9)
	assert.InDelta(t, 150, y2, 1e-9)
}
