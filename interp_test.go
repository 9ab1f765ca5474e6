package voxcontour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squarePoly(x0, y0, x1, y1 float64) ContourPolygon {
	return ContourPolygon{Points: []Point2D{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}}
}

func paintSquare(g *Grid2D[byte], x0, y0, size int, v byte) {
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			g.Set(x, y, v)
		}
	}
}

func TestInterpolateOneSliceMidpointOfEqualLengthPolygonsIsComponentwiseMean(t *testing.T) {
	lo := squarePoly(0, 0, 4, 4)
	hi := squarePoly(2, 2, 6, 6)

	polys, err := interpolateOneSlice([]ContourPolygon{lo}, []ContourPolygon{hi}, 0.5)
	require.NoError(t, err)
	require.Len(t, polys, 1)
	require.Len(t, polys[0].Points, 4)

	for i, p := range polys[0].Points {
		wantX := (lo.Points[i].X + hi.Points[i].X) / 2
		wantY := (lo.Points[i].Y + hi.Points[i].Y) / 2
		assert.InDelta(t, wantX, p.X, 1e-9)
		assert.InDelta(t, wantY, p.Y, 1e-9)
	}
}

func TestInterpolateOneSliceAtLoEndpointReproducesLo(t *testing.T) {
	lo := squarePoly(0, 0, 4, 4)
	hi := squarePoly(2, 2, 6, 6)

	polys, err := interpolateOneSlice([]ContourPolygon{lo}, []ContourPolygon{hi}, 0)
	require.NoError(t, err)
	require.Len(t, polys, 1)
	for i, p := range polys[0].Points {
		assert.InDelta(t, lo.Points[i].X, p.X, 1e-9)
		assert.InDelta(t, lo.Points[i].Y, p.Y, 1e-9)
	}
}

func TestInterpolateOneSlicePicksClosestPolygonByFirstPoint(t *testing.T) {
	loNear := squarePoly(0, 0, 2, 2)
	loFar := squarePoly(50, 50, 52, 52)
	hi := squarePoly(1, 1, 3, 3)

	polys, err := interpolateOneSlice([]ContourPolygon{loNear, loFar}, []ContourPolygon{hi}, 0.5)
	require.NoError(t, err)
	require.Len(t, polys, 1)
	// halfway between loNear's first point (0,0) and hi's (1,1)
	assert.InDelta(t, 0.5, polys[0].Points[0].X, 1e-9)
	assert.InDelta(t, 0.5, polys[0].Points[0].Y, 1e-9)
}

func TestInterpolateOneSliceHandlesEmptyMinList(t *testing.T) {
	hi := squarePoly(0, 0, 2, 2)
	polys, err := interpolateOneSlice(nil, []ContourPolygon{hi}, 0.5)
	require.NoError(t, err)
	assert.Empty(t, polys)
}

func TestInterpolateRangeFillsStrictlyBetweenLockedSlices(t *testing.T) {
	vol := NewGrid3D[byte](20, 20, 5, 1, 1, 1, 0, 0, 0, IdentityDirection3D())
	slice0 := NewGrid2D[byte](20, 20, 1, 1, 0, 0, IdentityDirection2D())
	paintSquare(slice0, 5, 5, 4, 1)
	slice4 := NewGrid2D[byte](20, 20, 1, 1, 0, 0, IdentityDirection2D())
	paintSquare(slice4, 8, 8, 4, 1)

	bc := &BuildContext{}
	c0, err := PolygonsWithHoles(slice0, 1, 1, 0, bc)
	require.NoError(t, err)
	c4, err := PolygonsWithHoles(slice4, 1, 1, 0, bc)
	require.NoError(t, err)

	cps := NewContoursPerSlice()
	cps.Set(0, c0)
	cps.Set(4, c4)

	out, errs := InterpolateRange(cps, vol, InterpOptions{FgID: 1, FirstPolygonID: 1}, bc)
	assert.Empty(t, errs)
	for z := 1; z <= 3; z++ {
		assert.True(t, out.ContainsKey(z), "slice %d should have interpolated contours", z)
	}
	assert.False(t, out.ContainsKey(0))
	assert.False(t, out.ContainsKey(4))
}

func TestInterpolateRangeSkipsAdjacentLockedSlices(t *testing.T) {
	vol := NewGrid3D[byte](10, 10, 3, 1, 1, 1, 0, 0, 0, IdentityDirection3D())
	slice := NewGrid2D[byte](10, 10, 1, 1, 0, 0, IdentityDirection2D())
	paintSquare(slice, 2, 2, 3, 1)

	bc := &BuildContext{}
	c, err := PolygonsWithHoles(slice, 1, 1, 0, bc)
	require.NoError(t, err)

	cps := NewContoursPerSlice()
	cps.Set(0, c)
	cps.Set(1, c)

	out, errs := InterpolateRange(cps, vol, InterpOptions{FgID: 1, FirstPolygonID: 1}, bc)
	assert.Empty(t, errs)
	assert.Empty(t, out.SlicesWithContours())
}
