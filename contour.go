package voxcontour

// moore8CW is the 8-connected neighbour offset table, enumerated clockwise
// (x to the right, y downward) starting with (+1,0), used by both the outer
// and the hole boundary walks; the two walks differ only in their start
// pixel and starting search index.
var moore8CW = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// PixelPoint is an integer pixel-centre coordinate, as produced by boundary
// tracing before the smoother converts it to a fractional path.
type PixelPoint struct {
	X, Y int
}

// Hole is an inner boundary attached to its immediate outer parent, with the
// seed pixel used later to splice the hole into the parent (§4.D).
type Hole struct {
	Points []PixelPoint
	SeedX  int
	SeedY  int
}

// Contour is one outer (or insert) boundary discovered by ExtractContours,
// together with any holes nested directly inside it.
type Contour struct {
	ID               int
	Points           []PixelPoint
	Holes            []Hole
	NestingLevel     int
	RegionAreaPixels uint64
}

// DefaultMaxNesting is the default depth limit for hole/insert discovery.
const DefaultMaxNesting = 6

// pendingRegion is one worklist entry for nesting discovery: a filled
// region of the mark grid still to be searched, either for holes (a
// foreground region, seekHoles true) or for inserts (a hole region,
// seekHoles false).
type pendingRegion struct {
	markID       int
	nestingLevel int
	seekHoles    bool
	owner        *Contour
}

// extractionState threads the grids and ID counter shared by the worklist
// steps of ExtractContours.
type extractionState struct {
	mark     *Grid2D[int]
	slice    *Grid2D[byte]
	fgID     byte
	nextID   int
	contours []*Contour
}

// ExtractContours traces every connected foreground region of slice (values
// equal to fgID) into outer boundaries, discovering nested holes and
// foreground inserts up to maxNesting levels deep. IDs are assigned starting
// at firstPolygonID (which must be non-zero: 0 marks "no polygon" in the
// returned mark grid). maxNesting <= 0 selects DefaultMaxNesting.
func ExtractContours(slice *Grid2D[byte], fgID byte, firstPolygonID int, maxNesting int, bc *BuildContext) ([]*Contour, *Grid2D[int], error) {
	if slice == nil {
		return nil, nil, newErr(ErrInvalidArgument, "ExtractContours", "grid must not be nil")
	}
	if firstPolygonID == 0 {
		return nil, nil, newErr(ErrInvalidArgument, "ExtractContours", "first polygon id must be non-zero")
	}
	if maxNesting <= 0 {
		maxNesting = DefaultMaxNesting
	}

	bc.StartTimer(TimerExtractContours)
	defer bc.StopTimer(TimerExtractContours)

	st := &extractionState{
		mark:   CreateSameSize2D[byte, int](slice),
		slice:  slice,
		fgID:   fgID,
		nextID: firstPolygonID,
	}

	var queue []pendingRegion
	for y := 0; y < slice.DimY; y++ {
		for x := 0; x < slice.DimX; x++ {
			if slice.At(x, y) != fgID || st.mark.At(x, y) != 0 {
				continue
			}
			isFg := func(nx, ny int) bool {
				return slice.InBounds(nx, ny) && slice.At(nx, ny) == fgID
			}
			bc.StartTimer(TimerTraceBoundary)
			pts := traceBoundary(x, y, 0, isFg)
			bc.StopTimer(TimerTraceBoundary)

			c, counts, err := st.newOuterContour(pts, isFg, x, y, 0)
			if err != nil {
				return nil, nil, err
			}
			if counts.Other > 0 {
				queue = append(queue, pendingRegion{markID: c.ID, nestingLevel: 0, seekHoles: true, owner: c})
			}
		}
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.nestingLevel >= maxNesting {
			continue
		}
		if item.seekHoles {
			st.discoverHoles(item, &queue)
		} else {
			st.discoverInserts(item, &queue)
		}
	}

	bc.Progressf("extracted %d outer contour(s)", len(st.contours))
	return st.contours, st.mark, nil
}

// newOuterContour registers a fresh outer-style contour (top-level or an
// insert found inside a hole), fills its interior into the mark grid under
// a new ID via a crack-boundary trace of belongsToRegion, and returns the
// resulting voxel tally.
func (st *extractionState) newOuterContour(pts []PixelPoint, belongsToRegion func(x, y int) bool, seedX, seedY, nestingLevel int) (*Contour, VoxelCounts, error) {
	id := st.nextID
	st.nextID++
	c := &Contour{ID: id, Points: pts, NestingLevel: nestingLevel}
	st.contours = append(st.contours, c)

	counts, err := st.fillBoundaryMark(belongsToRegion, seedX, seedY, id)
	c.RegionAreaPixels = counts.Foreground + counts.Other
	return c, counts, err
}

func (st *extractionState) discoverHoles(item pendingRegion, queue *[]pendingRegion) {
	for y := 0; y < st.mark.DimY; y++ {
		for x := 0; x < st.mark.DimX; x++ {
			if st.mark.At(x, y) != item.markID || st.slice.At(x, y) == st.fgID {
				continue
			}
			isHoleCell := func(nx, ny int) bool {
				return st.slice.InBounds(nx, ny) && st.mark.At(nx, ny) == item.markID && st.slice.At(nx, ny) != st.fgID
			}
			pts := dropFakeLeadingSteps(traceBoundary(x, y-1, 2, isHoleCell))

			holeID := -st.nextID
			st.nextID++
			item.owner.Holes = append(item.owner.Holes, Hole{Points: pts, SeedX: x, SeedY: y})

			counts, _ := st.fillBoundaryMark(isHoleCell, x, y, holeID)
			if counts.Other > 0 {
				*queue = append(*queue, pendingRegion{markID: holeID, nestingLevel: item.nestingLevel + 1, seekHoles: false, owner: item.owner})
			}
		}
	}
}

func (st *extractionState) discoverInserts(item pendingRegion, queue *[]pendingRegion) {
	for y := 0; y < st.mark.DimY; y++ {
		for x := 0; x < st.mark.DimX; x++ {
			if st.mark.At(x, y) != item.markID || st.slice.At(x, y) != st.fgID {
				continue
			}
			isInsertCell := func(nx, ny int) bool {
				return st.slice.InBounds(nx, ny) && st.mark.At(nx, ny) == item.markID && st.slice.At(nx, ny) == st.fgID
			}
			pts := traceBoundary(x, y, 0, isInsertCell)

			c, counts, err := st.newOuterContour(pts, isInsertCell, x, y, item.nestingLevel+1)
			if err != nil {
				continue
			}
			if counts.Other > 0 {
				*queue = append(*queue, pendingRegion{markID: c.ID, nestingLevel: item.nestingLevel + 1, seekHoles: true, owner: c})
			}
		}
	}
}

// fillBoundaryMark traces the crack (cell-edge) boundary of the connected
// region of belongsToRegion containing (seedX, seedY), rasterizes it with
// the Polygon Filler, paints id into mark, and tallies how many of the
// newly painted cells are foreground vs. other (background, or a
// differently-valued insert) against the original slice.
func (st *extractionState) fillBoundaryMark(belongsToRegion func(x, y int) bool, seedX, seedY, id int) (VoxelCounts, error) {
	poly := traceCrackBoundary(belongsToRegion, seedX, seedY)
	return FillWithCounts(st.mark, st.slice, st.fgID, poly, id, FillOptions{Rule: EvenOdd})
}

// traceBoundary performs a Moore-neighbour walk: from the current pixel and
// a search-direction index, it advances the index (mod 8) until a neighbour
// satisfies isBoundary, records it, rewinds the index by 2 and repeats; it
// stops the instant a step lands back on the start pixel. A start pixel
// with no qualifying neighbour yields the 1-point degenerate walk. startDir
// is 0 for an outer walk started on the region's first pixel and 2 for a
// hole walk started from the fake start directly above the hole's seed, so
// that its first step lands on the seed. A start pixel that fails
// isBoundary (the fake start) is never revisited, so such a walk stops
// instead when a step lands back on its first real pixel. Both walks go
// clockwise around the cells they follow; a hole walk follows the hole's
// own cells, not the foreground rim around them.
func traceBoundary(startX, startY, startDir int, isBoundary func(x, y int) bool) []PixelPoint {
	boundary := []PixelPoint{{startX, startY}}
	stopX, stopY := startX, startY
	fakeStart := !isBoundary(startX, startY)
	cx, cy, dir := startX, startY, startDir
	for {
		found := false
		var nx, ny, ndir int
		for i := 0; i < 8; i++ {
			d := (dir + i) % 8
			ox, oy := moore8CW[d][0], moore8CW[d][1]
			tx, ty := cx+ox, cy+oy
			if isBoundary(tx, ty) {
				nx, ny, ndir = tx, ty, d
				found = true
				break
			}
		}
		if !found {
			return boundary
		}
		cx, cy = nx, ny
		dir = (ndir + 6) % 8
		if cx == stopX && cy == stopY {
			return boundary
		}
		boundary = append(boundary, PixelPoint{cx, cy})
		if fakeStart && len(boundary) == 2 {
			stopX, stopY = cx, cy
		}
	}
}

// dropFakeLeadingSteps discards the leading point of the hole walk, the
// (x, y-1) fake start, which lies outside the hole and is not one of its
// boundary pixels; a walk with no point after it is returned unchanged
// (defensive, not expected in a well-formed mask).
func dropFakeLeadingSteps(pts []PixelPoint) []PixelPoint {
	if len(pts) <= 1 {
		return pts
	}
	return pts[1:]
}

// edgeDir is one of the four axis-aligned crack-following directions.
type edgeDir struct{ dx, dy int }

var (
	edgeRight = edgeDir{1, 0}
	edgeDown  = edgeDir{0, 1}
	edgeLeft  = edgeDir{-1, 0}
	edgeUp    = edgeDir{0, -1}
)

func rotateCW(d edgeDir) edgeDir  { return edgeDir{-d.dy, d.dx} }
func rotateCCW(d edgeDir) edgeDir { return edgeDir{d.dy, -d.dx} }

// cellLeftOf and cellRightOf give the pixel indices of the two cells
// touching the crack edge from corner c to c+d, relative to the direction
// of travel (left hand, right hand). A pixel grid cell (x, y) spans the
// continuous square [x, x+1) x [y, y+1), so the corner lattice coincides
// exactly with the cell-index lattice.
func cellLeftOf(c PixelPoint, d edgeDir) PixelPoint {
	switch d {
	case edgeRight:
		return PixelPoint{c.X, c.Y - 1}
	case edgeDown:
		return PixelPoint{c.X, c.Y}
	case edgeLeft:
		return PixelPoint{c.X - 1, c.Y}
	default: // edgeUp
		return PixelPoint{c.X - 1, c.Y - 1}
	}
}

func cellRightOf(c PixelPoint, d edgeDir) PixelPoint {
	switch d {
	case edgeRight:
		return PixelPoint{c.X, c.Y}
	case edgeDown:
		return PixelPoint{c.X - 1, c.Y}
	case edgeLeft:
		return PixelPoint{c.X - 1, c.Y - 1}
	default: // edgeUp
		return PixelPoint{c.X, c.Y - 1}
	}
}

// traceCrackBoundary traces the rectilinear cell-edge (crack) boundary of
// the 4-connected region of belongsToRegion containing the seed cell, used
// internally to get an exact fill polygon for the mark grid (as opposed to
// the diagonal-permissive Moore pixel walk used for the reported contour
// points). It is the classic wall-following algorithm: keep the region on
// the left hand and, at each corner, try turning left, then straight, then
// right, then back, taking the first direction whose left cell is in the
// region and whose right cell is not.
//
// This is deliberately a second, distinct boundary representation from the
// Moore pixel walk: the pixel walk's vertices sit at pixel centres, while
// the Polygon Filler's columns are picked by the half-open convention that
// cell (x, y) spans [x, x+1) x [y, y+1). Filling directly on pixel-centre
// vertices would shift every axis-aligned edge by half a cell and lose the
// rightmost/bottommost column of any filled region; walking the cell edges
// themselves keeps the fill exact.
//
// The seed must be the first cell of its region found in a row-major scan
// (true for every caller in this file), which guarantees the cell
// immediately to its left is outside the region and lets the walk start
// heading down the seed's left edge.
func traceCrackBoundary(belongsToRegion func(x, y int) bool, seedX, seedY int) ContourPolygon {
	start := PixelPoint{seedX, seedY}
	c := start
	dir := edgeDown
	pts := []Point2D{{float64(c.X), float64(c.Y)}}
	for {
		candidates := [4]edgeDir{rotateCCW(dir), dir, rotateCW(dir), {-dir.dx, -dir.dy}}
		var next edgeDir
		for _, d := range candidates {
			l, r := cellLeftOf(c, d), cellRightOf(c, d)
			if belongsToRegion(l.X, l.Y) && !belongsToRegion(r.X, r.Y) {
				next = d
				break
			}
		}
		c = PixelPoint{c.X + next.dx, c.Y + next.dy}
		dir = next
		if c == start {
			break
		}
		pts = append(pts, Point2D{float64(c.X), float64(c.Y)})
	}
	return ContourPolygon{Points: pts}
}
