package voxcontour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareWalk(x0, y0, x1, y1 int) []PixelPoint {
	var pts []PixelPoint
	for x := x0; x < x1; x++ {
		pts = append(pts, PixelPoint{x, y0})
	}
	for y := y0 + 1; y < y1; y++ {
		pts = append(pts, PixelPoint{x1 - 1, y})
	}
	for x := x1 - 2; x >= x0; x-- {
		pts = append(pts, PixelPoint{x, y1 - 1})
	}
	for y := y1 - 2; y > y0; y-- {
		pts = append(pts, PixelPoint{x0, y})
	}
	return pts
}

func polygonArea(pts []Point2D) float64 {
	n := len(pts)
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}

func TestSmoothNoneProducesClosedAreaPreservingPolygon(t *testing.T) {
	walk := squareWalk(2, 2, 8, 8)
	path, err := SmoothContour(walk, SmoothNone, nil)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.InDelta(t, 36, polygonArea(path), 1e-9)
}

func TestSmoothNoneSinglePixelIsUnitSquare(t *testing.T) {
	path, err := SmoothContour([]PixelPoint{{4, 4}}, SmoothNone, nil)
	require.NoError(t, err)
	require.Len(t, path, 4)
	assert.InDelta(t, 1, polygonArea(path), 1e-9)
}

func TestSmoothSmallSinglePixelIsDiamond(t *testing.T) {
	// A lone foreground pixel at (1,1) smooths to a diamond through its four
	// axis-aligned neighbours.
	path, err := SmoothContour([]PixelPoint{{1, 1}}, SmoothSmall, nil)
	require.NoError(t, err)
	require.Len(t, path, 4)
	want := []Point2D{{1.5, 0.5}, {0.5, 1.5}, {-0.5, 0.5}, {0.5, -0.5}}
	for i, p := range want {
		assert.InDelta(t, p.X, path[i].X, 1e-3)
		assert.InDelta(t, p.Y, path[i].Y, 1e-3)
	}
}

func TestSmoothSmallShortensStraightRunsButStaysClosed(t *testing.T) {
	walk := squareWalk(0, 0, 10, 10)
	path, err := SmoothContour(walk, SmoothSmall, nil)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	// a pure rectangle has only right turns: the pattern table should
	// collapse it down from the raw per-pixel corner count.
	raw, _ := SmoothContour(walk, SmoothNone, nil)
	assert.Less(t, len(path), len(raw))
}

func TestSmoothContourRejectsUnknownMode(t *testing.T) {
	_, err := SmoothContour(squareWalk(0, 0, 3, 3), SmoothMode(99), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTurnStringClassifiesRectangle(t *testing.T) {
	// every corner of a unit-square traversal is the same turn direction.
	pts := []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	turns, dirs, err := turnString(pts)
	require.NoError(t, err)
	assert.Equal(t, "LLLL", turns)
	assert.Len(t, dirs, 4)
}

func TestTurnStringRejectsDegenerateDisplacement(t *testing.T) {
	pts := []Point2D{{0, 0}, {1, 0}, {1, 0}}
	_, _, err := turnString(pts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRemoveRedundantPointsDropsColinearVertex(t *testing.T) {
	pts := []Point2D{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {0, 2}}
	out := removeRedundantPoints(pts)
	for _, p := range out {
		assert.NotEqual(t, Point2D{1, 0}, p)
	}
}
