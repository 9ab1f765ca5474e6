package voxcontour

import (
	"math"
	"sort"

	assert "github.com/arl/assertgo"
)

// fillEpsilon is the scanline epsilon used to disambiguate vertices and
// horizontal edges lying exactly on an integer scanline (§6).
const fillEpsilon = 0.01

// redundantPointEpsilon2 is the squared-length tolerance used to drop
// colinear/coincident points when simplifying a contour (§6).
const redundantPointEpsilon2 = 0.0

// Point2D is a fractional 2D point, used for ContourPolygon vertices.
type Point2D struct {
	X, Y float64
}

// ContourPolygon is an immutable ordered closed polygon: the first and last
// points are implicitly joined. RegionAreaPixels is the voxel count the
// polygon is known to enclose (carried from the extractor, not recomputed
// by Fill).
type ContourPolygon struct {
	Points           []Point2D
	RegionAreaPixels uint64
}

// FillRule selects the rasterization rule used by Fill.
type FillRule int

const (
	// EvenOdd fills a pixel iff a ray from its centre crosses the polygon
	// boundary an odd number of times. This is the only rule the pipeline
	// currently implements.
	EvenOdd FillRule = iota
	// NonZero is declared for API completeness but not implemented.
	NonZero
)

// FillOptions configures Fill and FillWithCounts.
type FillOptions struct {
	Rule FillRule
}

// Fill rasterizes poly onto g, painting every enclosed pixel (per the
// scanline rule of §4.B) with value. Columns are clamped to [0, DimX-1];
// rows outside [0, DimY-1] are skipped.
func Fill[T any](g *Grid2D[T], poly ContourPolygon, value T, opts FillOptions) error {
	_, err := fillImpl(g, nil, 0, poly, value, opts)
	return err
}

// VoxelCounts tallies foreground vs. other voxels encountered while
// painting (used by the extractor to aggregate per-polygon statistics).
type VoxelCounts struct {
	Foreground uint64
	Other      uint64
}

// FillWithCounts behaves like Fill but additionally tallies, for every
// newly painted index, whether countGrid holds fgID or something else.
func FillWithCounts[T any](g *Grid2D[T], countGrid *Grid2D[byte], fgID byte, poly ContourPolygon, value T, opts FillOptions) (VoxelCounts, error) {
	return fillImpl(g, countGrid, fgID, poly, value, opts)
}

func fillImpl[T any](g *Grid2D[T], countGrid *Grid2D[byte], fgID byte, poly ContourPolygon, value T, opts FillOptions) (VoxelCounts, error) {
	var counts VoxelCounts
	if opts.Rule == NonZero {
		return counts, newErr(ErrNotSupported, "Fill", "NonZero fill rule is not implemented")
	}
	if len(poly.Points) == 0 {
		return counts, newErr(ErrInvalidArgument, "Fill", "polygon has no points")
	}

	ymin, ymax := polygonYBounds(poly.Points)
	y0 := maxInt(0, int(math.Floor(ymin)))
	y1 := minInt(g.DimY-1, int(math.Ceil(ymax)))

	for y := y0; y <= y1; y++ {
		spans := scanlineSpans(poly.Points, y)
		for i := 0; i+1 < len(spans); i += 2 {
			a, b := spans[i], spans[i+1]
			// Both ends are nudged by -fillEpsilon, not +fillEpsilon: a span
			// [a,b) covers pixel columns whose own [x,x+1) cell overlaps it,
			// which is the half-open convention fillBoundaryMark and the
			// extract/fill round-trip both depend on. Nudging b the other
			// way would count a span landing exactly on an integer edge (the
			// common case for axis-aligned polygons) as reaching one column
			// further than it does.
			x0 := maxInt(0, int(math.Ceil(a-fillEpsilon)))
			x1 := minInt(g.DimX-1, int(math.Floor(b-fillEpsilon)))
			for x := x0; x <= x1; x++ {
				g.Set(x, y, value)
				if countGrid != nil {
					if countGrid.At(x, y) == fgID {
						counts.Foreground++
					} else {
						counts.Other++
					}
				}
			}
		}
	}
	return counts, nil
}

func polygonYBounds(pts []Point2D) (min, max float64) {
	min, max = pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < min {
			min = p.Y
		}
		if p.Y > max {
			max = p.Y
		}
	}
	return
}

// scanlineSpans implements the epsilon-displaced intersection rule of §4.B:
// every edge is tested against the single probe line y+eps, not against the
// raw integer scanline itself, so a vertex (or a horizontal edge) lying
// exactly on y still resolves unambiguously to whichever row it visually
// belongs to. Probing only y+eps (rather than forming both a y+eps and a
// y-eps pass and requiring them to agree) is what makes a row sitting on a
// polygon's local min or max still register as a crossing: at such a row
// the two passes disagree by construction, and requiring agreement dropped
// the span entirely. Events are sorted by x and consumed by a standard
// even-odd toggle; consecutive pairs of toggle points are the spans to
// fill. The terminal parity is always even for a closed polygon, which is
// asserted as an internal invariant.
func scanlineSpans(pts []Point2D, y int) []float64 {
	n := len(pts)
	ystar := float64(y) + fillEpsilon
	xs := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := pts[i], pts[j]
		if pi.Y == pj.Y {
			continue
		}
		cond1 := pi.Y < ystar && ystar <= pj.Y
		cond2 := pj.Y < ystar && ystar <= pi.Y
		if cond1 == cond2 {
			continue // not a crossing of the probe line
		}
		x := pi.X + (ystar-pi.Y)*(pj.X-pi.X)/(pj.Y-pi.Y)
		xs = append(xs, x)
	}
	sort.Float64s(xs)
	assert.True(len(xs)%2 == 0, "scanlineSpans: a closed polygon crosses a probe line an even number of times")
	return xs
}

// PointInPolygon classifies p against poly using the winding-number
// algorithm with an explicit on-segment epsilon test. It returns -1 if p is
// outside, 0 if p lies on the boundary, +1 if p is inside. If bbox is
// non-nil, p is first tested against it and classified outside immediately
// on a miss.
func PointInPolygon(poly []Point2D, p Point2D, bbox *Region2D) int {
	if bbox != nil && !bboxContainsPoint(*bbox, p) {
		return -1
	}
	n := len(poly)
	if n == 0 {
		return -1
	}
	const onEps = 1e-9
	winding := 0
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if onSegment(a, b, p, onEps) {
			return 0
		}
		if a.Y <= p.Y {
			if b.Y > p.Y && crossProduct(a, b, p) > 0 {
				winding++
			}
		} else {
			if b.Y <= p.Y && crossProduct(a, b, p) < 0 {
				winding--
			}
		}
	}
	if winding != 0 {
		return 1
	}
	return -1
}

func bboxContainsPoint(r Region2D, p Point2D) bool {
	return p.X >= float64(r.MinX) && p.X <= float64(r.MaxX) &&
		p.Y >= float64(r.MinY) && p.Y <= float64(r.MaxY)
}

func crossProduct(a, b, p Point2D) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
}

func onSegment(a, b, p Point2D, eps float64) bool {
	cross := crossProduct(a, b, p)
	lenSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	if lenSq == 0 {
		dx, dy := p.X-a.X, p.Y-a.Y
		return dx*dx+dy*dy <= eps*eps
	}
	if cross*cross > eps*eps*lenSq {
		return false
	}
	dot := (p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)
	return dot >= -eps && dot <= lenSq+eps
}

// FloodFillHoles fills, on a single 2D slice, every background region that
// is not connected to the outer border of the foreground's bounding box.
// It fails with ErrInvalidArgument if fg == bg.
func FloodFillHoles(g *Grid2D[byte], fg, bg byte) error {
	if fg == bg {
		return newErr(ErrInvalidArgument, "FloodFillHoles", "foreground and background must differ")
	}
	box := MaskBoundingBox2D(g, fg)
	if box.IsEmpty() {
		return nil
	}
	const tempColor = 2 // distinct from 0/1 mask convention; see relabel pass below
	floodFrom := func(x, y int) {
		if g.At(x, y) != bg {
			return
		}
		scanlineFloodFill(g, x, y, bg, tempColor, box)
	}
	for x := box.MinX; x <= box.MaxX; x++ {
		floodFrom(x, box.MinY)
		floodFrom(x, box.MaxY)
	}
	for y := box.MinY; y <= box.MaxY; y++ {
		floodFrom(box.MinX, y)
		floodFrom(box.MaxX, y)
	}
	for y := box.MinY; y <= box.MaxY; y++ {
		for x := box.MinX; x <= box.MaxX; x++ {
			if g.At(x, y) == byte(tempColor) {
				g.Set(x, y, bg)
			} else {
				g.Set(x, y, fg)
			}
		}
	}
	return nil
}

// scanlineFloodFill is the classic scanline-stack flood fill algorithm,
// restricted to bounds.
func scanlineFloodFill(g *Grid2D[byte], x, y int, from, to byte, bounds Region2D) {
	type span struct{ x, y int }
	stack := []span{{x, y}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !bounds.Contains(s.x, s.y) || g.At(s.x, s.y) != from {
			continue
		}
		// Find the horizontal run containing s.
		left := s.x
		for left-1 >= bounds.MinX && g.At(left-1, s.y) == from {
			left--
		}
		right := s.x
		for right+1 <= bounds.MaxX && g.At(right+1, s.y) == from {
			right++
		}
		for x := left; x <= right; x++ {
			g.Set(x, s.y, to)
		}
		pushRow := func(row int) {
			if row < bounds.MinY || row > bounds.MaxY {
				return
			}
			inSpan := false
			for x := left; x <= right; x++ {
				isFrom := g.At(x, row) == from
				if isFrom && !inSpan {
					stack = append(stack, span{x, row})
					inSpan = true
				} else if !isFrom {
					inSpan = false
				}
			}
		}
		pushRow(s.y - 1)
		pushRow(s.y + 1)
	}
}
