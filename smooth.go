package voxcontour

import "math"

// SmoothMode selects how ExtractContours' pixel walks are converted to
// fractional display polygons.
type SmoothMode int

const (
	// SmoothNone emits the raw fractional outer-edge path with no pattern
	// substitution, with pixel centres at integer coordinates.
	SmoothNone SmoothMode = iota
	// SmoothSmall applies the turn-string pattern substitution table to
	// round corners and shorten straight runs.
	SmoothSmall
)

// gapTolerance bounds how far the smoothed path's last point may land from
// its first before None-mode smoothing is considered to have produced a
// malformed (non-closing) contour.
const gapTolerance = 0.01

// cornerOf assigns each of the 8 Moore directions to one of the pixel's 4
// true corners (half-integer offsets from the pixel centre); adjacent
// direction pairs that point into the same corner region share an entry, so
// a straight run re-emits the same corner (translated) at every step and a
// turn emits the two distinct corners that bound it (see DESIGN.md for the
// reasoning behind this direction/latch state machine).
func cornerOf(dirIndex int) Point2D {
	switch dirIndex % 8 {
	case 0, 7: // E, NE
		return Point2D{0.5, -0.5}
	case 5, 6: // NW, N
		return Point2D{-0.5, -0.5}
	case 3, 4: // SW, W
		return Point2D{-0.5, 0.5}
	default: // SE, S
		return Point2D{0.5, 0.5}
	}
}

func directionIndexOf(dx, dy int) int {
	for i, o := range moore8CW {
		if o[0] == dx && o[1] == dy {
			return i
		}
	}
	return 0
}

// outerEdgePath converts a closed 8-connected pixel-centre walk into its
// fractional outer-edge path: at every vertex it emits the corner(s)
// bounding the incoming and outgoing edge, then translates every point by
// (shift, shift).
func outerEdgePath(pts []PixelPoint, shift float64) []Point2D {
	n := len(pts)
	if n == 0 {
		return nil
	}
	if n == 1 {
		p := pts[0]
		return []Point2D{
			{float64(p.X) - 0.5 + shift, float64(p.Y) - 0.5 + shift},
			{float64(p.X) + 0.5 + shift, float64(p.Y) - 0.5 + shift},
			{float64(p.X) + 0.5 + shift, float64(p.Y) + 0.5 + shift},
			{float64(p.X) - 0.5 + shift, float64(p.Y) + 0.5 + shift},
		}
	}

	out := make([]Point2D, 0, n*2)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		din := directionIndexOf(cur.X-prev.X, cur.Y-prev.Y)
		dout := directionIndexOf(next.X-cur.X, next.Y-cur.Y)

		cIn := cornerOf(din)
		cOut := cornerOf(dout)
		base := Point2D{float64(cur.X), float64(cur.Y)}
		if cIn == cOut {
			out = append(out, Point2D{base.X + cIn.X + shift, base.Y + cIn.Y + shift})
		} else {
			out = append(out, Point2D{base.X + cIn.X + shift, base.Y + cIn.Y + shift})
			out = append(out, Point2D{base.X + cOut.X + shift, base.Y + cOut.Y + shift})
		}
	}
	return out
}

// SmoothContour converts one boundary's pixel walk into its fractional
// display polygon per mode.
func SmoothContour(pts []PixelPoint, mode SmoothMode, bc *BuildContext) ([]Point2D, error) {
	bc.StartTimer(TimerSmoothContour)
	defer bc.StopTimer(TimerSmoothContour)

	switch mode {
	case SmoothNone:
		return smoothNone(pts)
	case SmoothSmall:
		return smoothSmall(pts)
	default:
		return nil, newErr(ErrInvalidArgument, "SmoothContour", "unknown smoothing mode %d", mode)
	}
}

func smoothNone(pts []PixelPoint) ([]Point2D, error) {
	// outerEdgePath builds on integer pixel centres, so no shift is needed.
	const shift = 0.0
	path := outerEdgePath(pts, shift)
	if len(path) < 2 {
		return path, nil
	}
	last, first := path[len(path)-1], path[0]
	gap := math.Hypot(last.X-first.X, last.Y-first.Y)
	if gap > 1+gapTolerance {
		return nil, newErr(ErrInvalidState, "SmoothContour", "closing gap %.4f exceeds tolerance", gap)
	}
	return path, nil
}

// turnPatterns is the priority-ordered substitution table of §4.D. Patterns
// are tried in this order; a match blocks any later pattern (of any length)
// from reusing the positions it claims.
var turnPatterns = []struct {
	turns string
	frag  []Point2D
}{
	{"FRF", []Point2D{{0, -0.5}, {0, 0.1}, {-0.9, 1}, {-1.5, 1}}},
	{"FLF", []Point2D{{0, -0.5}, {0, 0.1}, {0.9, 1}, {1.5, 1}}},
	{"RFL", []Point2D{{0, -0.5}, {-2, 0.5}}},
	{"LFR", []Point2D{{0, -0.5}, {2, 0.5}}},
	{"RL", []Point2D{{0, -0.5}, {-1, 0.5}}},
	{"LR", []Point2D{{0, -0.5}, {1, 0.5}}},
	{"R", []Point2D{{0, -0.5}, {-0.5, 0}}},
	{"L", []Point2D{{0, -0.5}, {0.5, 0}}},
}

// smoothSmall converts an extracted boundary's pixel walk into a
// corner-rounded display polygon. A single isolated pixel has no turn
// sequence to substitute against (it is not a walk, just one point), so its
// result is defined directly: the "R"/"L" corner cut applied at all four of
// its degenerate corners collapses to the diamond through its four
// axis-aligned neighbours.
func smoothSmall(pts []PixelPoint) ([]Point2D, error) {
	if len(pts) == 1 {
		p := pts[0]
		x, y := float64(p.X), float64(p.Y)
		return []Point2D{
			{x + 0.5, y - 0.5}, {x - 0.5, y + 0.5}, {x - 1.5, y - 0.5}, {x - 0.5, y - 1.5},
		}, nil
	}

	// A half-unit shift puts every corner on an integer lattice point, so
	// rounding keeps each step a unit step.
	raw := outerEdgePath(pts, 0.5)
	rounded := roundPoints(raw)
	rounded = dedupConsecutive(rounded)
	if len(rounded) < 2 {
		return rounded, nil
	}

	turns, dirs, err := turnString(rounded)
	if err != nil {
		return nil, err
	}
	n := len(rounded)

	claimed := make([]bool, n)
	fragments := make([][]Point2D, n)
	for _, pat := range turnPatterns {
		l := len(pat.turns)
		for i := 0; i < n; i++ {
			if !patternMatchesAt(turns, claimed, i, pat.turns) {
				continue
			}
			fragments[i] = pat.frag
			for k := 0; k < l; k++ {
				claimed[(i+k)%n] = true
			}
		}
	}
	for i := 0; i < n; i++ {
		if !claimed[i] {
			fragments[i] = []Point2D{{0, 0}}
		}
	}

	var world []Point2D
	for i := 0; i < n; i++ {
		d0 := dirs[i]
		d1 := Point2D{-d0.Y, d0.X}
		p := rounded[i]
		for _, f := range fragments[i] {
			world = append(world, Point2D{
				X: p.X + f.X*d1.X + f.Y*d0.X,
				Y: p.Y + f.X*d1.Y + f.Y*d0.Y,
			})
		}
	}
	for i := range world {
		world[i].X -= 0.5
		world[i].Y -= 0.5
	}
	return removeRedundantPoints(world), nil
}

// patternMatchesAt reports whether turns[i..i+len(pattern)-1] (cyclic)
// equals pattern and none of those positions are already claimed.
func patternMatchesAt(turns string, claimed []bool, i int, pattern string) bool {
	n := len(turns)
	for k := 0; k < len(pattern); k++ {
		idx := (i + k) % n
		if claimed[idx] || turns[idx] != pattern[k] {
			return false
		}
	}
	return true
}

// turnString compares each displacement to the previous one and classifies
// it as F (same direction), L (left turn, (x,y) -> (-y,x)) or R (right
// turn, (x,y) -> (y,-x)). It also returns, for each position, the unit edge
// direction leaving that position (d0 in §4.D's fragment frame).
func turnString(pts []Point2D) (string, []Point2D, error) {
	n := len(pts)
	disp := make([]Point2D, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		disp[i] = Point2D{pts[j].X - pts[i].X, pts[j].Y - pts[i].Y}
	}

	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		prev := disp[(i-1+n)%n]
		cur := disp[i]
		switch {
		case approxEqual(cur, prev):
			buf[i] = 'F'
		case approxEqual(cur, Point2D{-prev.Y, prev.X}):
			buf[i] = 'L'
		case approxEqual(cur, Point2D{prev.Y, -prev.X}):
			buf[i] = 'R'
		default:
			return "", nil, newErr(ErrInvalidArgument, "turnString", "degenerate displacement at position %d", i)
		}
	}
	return string(buf), disp, nil
}

func approxEqual(a, b Point2D) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func roundPoints(pts []Point2D) []Point2D {
	out := make([]Point2D, len(pts))
	for i, p := range pts {
		out[i] = Point2D{math.Round(p.X), math.Round(p.Y)}
	}
	return out
}

func dedupConsecutive(pts []Point2D) []Point2D {
	if len(pts) == 0 {
		return pts
	}
	out := make([]Point2D, 0, len(pts))
	for i, p := range pts {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// removeRedundantPoints drops coincident points (squared distance <=
// redundantPointEpsilon2) and points that are exactly colinear with their
// neighbours, repeating until the polygon is stable.
func removeRedundantPoints(pts []Point2D) []Point2D {
	for {
		n := len(pts)
		if n < 3 {
			return pts
		}
		next := make([]Point2D, 0, n)
		changed := false
		for i := 0; i < n; i++ {
			prev := pts[(i-1+n)%n]
			cur := pts[i]
			nxt := pts[(i+1)%n]
			dx, dy := cur.X-prev.X, cur.Y-prev.Y
			if dx*dx+dy*dy <= redundantPointEpsilon2 {
				changed = true
				continue
			}
			if crossProduct(prev, nxt, cur) == 0 {
				changed = true
				continue
			}
			next = append(next, cur)
		}
		if !changed || len(next) == n {
			return next
		}
		pts = next
	}
}
