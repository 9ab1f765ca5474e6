package voxcontour

import "math"

// InnerOuterPolygon pairs one outer boundary, as discovered by
// ExtractContours, with the hole boundaries nested directly inside it.
type InnerOuterPolygon struct {
	Outer *Contour
	Inner []Hole
}

// PolygonsWithHoles extracts every outer contour of mask (foreground fgID),
// smooths it and its direct holes, and splices each hole into its outer
// polygon along a zero-width channel, yielding one closed ContourPolygon per
// outer contour with no holes reported separately. Inserts nested inside a
// hole surface as their own entries in the result, matching ExtractContours.
func PolygonsWithHoles(mask *Grid2D[byte], fgID byte, firstPolygonID, maxNesting int, bc *BuildContext) ([]ContourPolygon, error) {
	contours, _, err := ExtractContours(mask, fgID, firstPolygonID, maxNesting, bc)
	if err != nil {
		return nil, err
	}
	out := make([]ContourPolygon, 0, len(contours))
	for _, c := range contours {
		poly, err := spliceContour(InnerOuterPolygon{Outer: c, Inner: c.Holes}, bc)
		if err != nil {
			return nil, err
		}
		out = append(out, poly)
	}
	return out, nil
}

// spliceContour smooths io's outer boundary and every hole, then folds each
// hole into the outer path per §4.D, returning the single resulting polygon.
func spliceContour(io InnerOuterPolygon, bc *BuildContext) (ContourPolygon, error) {
	outerPts, err := SmoothContour(io.Outer.Points, SmoothNone, bc)
	if err != nil {
		return ContourPolygon{}, err
	}
	for _, h := range io.Inner {
		innerPts, err := SmoothContour(h.Points, SmoothNone, bc)
		if err != nil {
			return ContourPolygon{}, err
		}
		outerPts, err = spliceHoleIntoOuter(outerPts, innerPts, float64(h.SeedX), float64(h.SeedY))
		if err != nil {
			return ContourPolygon{}, err
		}
	}
	return ContourPolygon{Points: outerPts, RegionAreaPixels: io.Outer.RegionAreaPixels}, nil
}

// spliceHoleIntoOuter joins inner into outer along a degenerate zero-width
// channel at x = sx, per §4.D:
//  1. the outer edge crossing x=sx with the highest y <= sy (closest above
//     the seed) gives the outer attachment point;
//  2. the inner edge crossing x=sx with the minimum y gives the inner
//     attachment point;
//  3. the result is outer[0..p], outer point, inner point, inner (rotated so
//     its attachment edge is first), inner point, outer point, outer[p+1..].
func spliceHoleIntoOuter(outer, inner []Point2D, sx, sy float64) ([]Point2D, error) {
	op, oy, ok := highestCrossingAtMostY(outer, sx, sy)
	if !ok {
		return nil, newErr(ErrInvalidArgument, "spliceHoleIntoOuter", "outer polygon has no edge crossing x=%.3f at or above the seed", sx)
	}
	ip, iy, ok := lowestCrossing(inner, sx)
	if !ok {
		return nil, newErr(ErrInvalidArgument, "spliceHoleIntoOuter", "inner polygon has no edge crossing x=%.3f", sx)
	}

	outerPoint := Point2D{sx, oy}
	innerPoint := Point2D{sx, iy}

	m := len(inner)
	rotatedInner := make([]Point2D, m)
	for k := 0; k < m; k++ {
		rotatedInner[k] = inner[(ip+k)%m]
	}

	spliced := make([]Point2D, 0, len(outer)+m+4)
	spliced = append(spliced, outer[:op+1]...)
	spliced = append(spliced, outerPoint, innerPoint)
	spliced = append(spliced, rotatedInner...)
	spliced = append(spliced, innerPoint, outerPoint)
	spliced = append(spliced, outer[op+1:]...)
	return spliced, nil
}

// highestCrossingAtMostY finds the edge of pts crossing the vertical line
// x = x whose intersection y is <= maxY and, among those, maximal; it
// returns the index of the edge's first vertex and the intersection's y.
func highestCrossingAtMostY(pts []Point2D, x, maxY float64) (edge int, y float64, ok bool) {
	best := math.Inf(-1)
	bestIdx := -1
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a, b := pts[i], pts[j]
		if a.X == b.X {
			continue
		}
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		if x < lo || x > hi {
			continue
		}
		cy := a.Y + (x-a.X)*(b.Y-a.Y)/(b.X-a.X)
		if cy > maxY || cy <= best {
			continue
		}
		best, bestIdx = cy, i
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, best, true
}

// lowestCrossing finds the edge of pts crossing the vertical line x = x
// whose intersection y is minimal.
func lowestCrossing(pts []Point2D, x float64) (edge int, y float64, ok bool) {
	best := math.Inf(1)
	bestIdx := -1
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a, b := pts[i], pts[j]
		if a.X == b.X {
			continue
		}
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		if x < lo || x > hi {
			continue
		}
		cy := a.Y + (x-a.X)*(b.Y-a.Y)/(b.X-a.X)
		if cy >= best {
			continue
		}
		best, bestIdx = cy, i
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, best, true
}
