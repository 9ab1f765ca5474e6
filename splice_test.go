package voxcontour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpliceHoleIntoOuterBuildsZeroWidthChannel(t *testing.T) {
	outer := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	inner := []Point2D{{4, 4}, {6, 4}, {6, 6}, {4, 6}}

	spliced, err := spliceHoleIntoOuter(outer, inner, 5, 5)
	require.NoError(t, err)

	want := []Point2D{
		{0, 0}, // outer[0..p], p = 0: the crossing lies on edge (0,0)-(10,0)
		{5, 0}, {5, 4}, // outer point, inner point
		{4, 4}, {6, 4}, {6, 6}, {4, 6}, // inner rotated so its attachment edge is first
		{5, 4}, {5, 0}, // inner point, outer point
		{10, 0}, {10, 10}, {0, 10}, // outer[p+1..]
	}
	assert.Equal(t, want, spliced)
}

func TestSpliceHoleIntoOuterRejectsWhenNoOuterEdgeLiesAboveTheSeed(t *testing.T) {
	outer := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	inner := []Point2D{{4, 4}, {6, 4}, {6, 6}, {4, 6}}

	_, err := spliceHoleIntoOuter(outer, inner, 5, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPolygonsWithHolesSplicesRingIntoOnePolygon(t *testing.T) {
	g := rectMask(16, 16, 2, 2, 12, 12)
	for y := 5; y < 9; y++ {
		for x := 5; x < 9; x++ {
			g.Set(x, y, 0)
		}
	}

	polys, err := PolygonsWithHoles(g, 1, 1, 0, nil)
	require.NoError(t, err)
	require.Len(t, polys, 1)
	assert.NotEmpty(t, polys[0].Points)
	assert.Equal(t, uint64(100), polys[0].RegionAreaPixels, "10x10 outer region, including the hole's own cells")
}

func TestPolygonsWithHolesRejectsNilGrid(t *testing.T) {
	_, err := PolygonsWithHoles(nil, 1, 1, 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
