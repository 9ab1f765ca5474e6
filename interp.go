package voxcontour

import "math"

// InterpOptions configures InterpolateRange.
type InterpOptions struct {
	// FgID is the value Fill paints and the extractor treats as foreground
	// when re-rasterising an interpolated slice.
	FgID byte
	// FirstPolygonID seeds ExtractContours on each re-rasterised slice.
	FirstPolygonID int
	// MaxNesting bounds hole/insert discovery depth (0 = DefaultMaxNesting).
	MaxNesting int
}

// SliceError records a single slice's interpolation failure without
// aborting the rest of the range.
type SliceError struct {
	SliceIndex int
	Err        error
}

func (e SliceError) Error() string { return e.Err.Error() }

// InterpolateRange fills every slice strictly between each pair of
// adjacent locked (non-empty) slices of cps with polygons linearly blended
// from that pair, re-rasterising each result to guarantee a legal,
// non-self-intersecting contour set. Slices that already have contours are
// left untouched. Partial failures are collected and returned alongside
// whatever slices did succeed, rather than aborting the whole range.
func InterpolateRange(cps *ContoursPerSlice, vol *Grid3D[byte], opts InterpOptions, bc *BuildContext) (*ContoursPerSlice, []SliceError) {
	bc.StartTimer(TimerInterpolate)
	defer bc.StopTimer(TimerInterpolate)

	out := NewContoursPerSlice()
	locked := cps.SlicesWithContours()
	sortInts(locked)

	var errs []SliceError
	for i := 0; i+1 < len(locked); i++ {
		loZ, hiZ := locked[i], locked[i+1]
		if hiZ-loZ < 2 {
			continue
		}
		loList, _ := cps.TryContoursForSlice(loZ)
		hiList, _ := cps.TryContoursForSlice(hiZ)

		for z := loZ + 1; z < hiZ; z++ {
			d := float64(z-loZ) / float64(hiZ-loZ)
			polys, err := interpolateOneSlice(loList, hiList, d)
			if err != nil {
				errs = append(errs, SliceError{SliceIndex: z, Err: err})
				continue
			}
			contours, err := rerasterize(vol, polys, opts, bc)
			if err != nil {
				errs = append(errs, SliceError{SliceIndex: z, Err: err})
				continue
			}
			out.Set(z, contours)
		}
	}
	return out, errs
}

// interpolateOneSlice implements the per-pair blend: the longer polygon
// list is "max", the shorter is "min"; each max polygon is paired with its
// closest unclaimed min polygon by first-point squared distance, the min
// polygon's point count sets the output length, and each output point is a
// (1-d)/d blend of the min point and a max point resampled to the same
// relative position along its own polygon.
func interpolateOneSlice(loList, hiList []ContourPolygon, d float64) ([]ContourPolygon, error) {
	minList, maxList, swapped := loList, hiList, false
	if len(minList) > len(maxList) {
		minList, maxList, swapped = maxList, minList, true
	}
	if len(minList) == 0 {
		return nil, nil
	}
	// dMin/dMax are the blend weights of the min-side and max-side points
	// respectively, after undoing the swap above so they still track lo/hi.
	dMin, dMax := 1-d, d
	if swapped {
		dMin, dMax = d, 1-d
	}

	out := make([]ContourPolygon, 0, len(maxList))
	usedMin := make([]bool, len(minList))
	for _, mx := range maxList {
		mxPts := mx.Points
		if len(mxPts) == 0 {
			continue
		}
		best, bestDist := -1, math.Inf(1)
		for i, mn := range minList {
			if usedMin[i] {
				continue
			}
			mnPts := mn.Points
			if len(mnPts) == 0 {
				continue
			}
			dist := squaredDist(mnPts[0], mxPts[0])
			if dist < bestDist {
				bestDist, best = dist, i
			}
		}
		if best < 0 {
			continue
		}
		usedMin[best] = true
		minPts := minList[best].Points

		n := len(minPts)
		pts := make([]Point2D, n)
		for i := 1; i <= n; i++ {
			j := int(math.Round(float64(i) * float64(len(mxPts)) / float64(n)))
			if j < 1 {
				j = 1
			}
			if j > len(mxPts) {
				j = len(mxPts)
			}
			minP, maxP := minPts[i-1], mxPts[j-1]
			pts[i-1] = Point2D{
				X: dMin*minP.X + dMax*maxP.X,
				Y: dMin*minP.Y + dMax*maxP.Y,
			}
		}
		out = append(out, ContourPolygon{Points: pts})
	}
	return out, nil
}

func squaredDist(a, b Point2D) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// rerasterize paints polys onto a scratch mask sized and geometrically
// anchored like vol's XY plane, then re-extracts and re-smooths, so the
// interpolated output is guaranteed to be a legal, non-self-intersecting
// contour set expressed in the same smoothed/spliced form as every other
// slice in a ContoursPerSlice.
func rerasterize(vol *Grid3D[byte], polys []ContourPolygon, opts InterpOptions, bc *BuildContext) ([]ContourPolygon, error) {
	ox, oy, _ := vol.PhysicalPoint(0, 0, 0)
	dir := Direction2D{{vol.Dir[0][0], vol.Dir[0][1]}, {vol.Dir[1][0], vol.Dir[1][1]}}
	scratch := NewGrid2D[byte](vol.DimX, vol.DimY, vol.Sx, vol.Sy, ox, oy, dir)
	for _, p := range polys {
		if err := Fill(scratch, p, opts.FgID, FillOptions{Rule: EvenOdd}); err != nil {
			return nil, err
		}
	}
	firstID := opts.FirstPolygonID
	if firstID == 0 {
		firstID = 1
	}
	return PolygonsWithHoles(scratch, opts.FgID, firstID, opts.MaxNesting, bc)
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
