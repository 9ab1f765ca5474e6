package voxcontour

import "sync"

// Orientation selects which plane of a Grid3D a 2D slice is cut from.
type Orientation int

const (
	// Axial slices the XY plane at a fixed Z index.
	Axial Orientation = iota
	// Coronal slices the XZ plane at a fixed Y index.
	Coronal
	// Sagittal slices the YZ plane at a fixed X index.
	Sagittal
)

// ExtractSlice allocates a 2D slice of vol at index along orientation's
// fixed axis. Dimensions, spacing, origin and direction are derived from
// the chosen plane (Axial = XY, Coronal = XZ, Sagittal = YZ); the row/column
// copy walks vol with the corresponding stride pattern. Fails with
// ErrOutOfRange if index is outside the fixed axis' extent.
func ExtractSlice[T any](vol *Grid3D[T], orientation Orientation, index int) (*Grid2D[T], error) {
	switch orientation {
	case Axial:
		if index < 0 || index >= vol.DimZ {
			return nil, newErr(ErrOutOfRange, "ExtractSlice", "z index %d outside [0,%d)", index, vol.DimZ)
		}
		ox, oy, _ := vol.PhysicalPoint(0, 0, float64(index))
		dir := Direction2D{{vol.Dir[0][0], vol.Dir[0][1]}, {vol.Dir[1][0], vol.Dir[1][1]}}
		out := NewGrid2D[T](vol.DimX, vol.DimY, vol.Sx, vol.Sy, ox, oy, dir)
		for y := 0; y < vol.DimY; y++ {
			for x := 0; x < vol.DimX; x++ {
				out.Set(x, y, vol.At(x, y, index))
			}
		}
		return out, nil

	case Coronal:
		if index < 0 || index >= vol.DimY {
			return nil, newErr(ErrOutOfRange, "ExtractSlice", "y index %d outside [0,%d)", index, vol.DimY)
		}
		ox, _, oz := vol.PhysicalPoint(0, float64(index), 0)
		dir := Direction2D{{vol.Dir[0][0], vol.Dir[0][2]}, {vol.Dir[2][0], vol.Dir[2][2]}}
		out := NewGrid2D[T](vol.DimX, vol.DimZ, vol.Sx, vol.Sz, ox, oz, dir)
		for z := 0; z < vol.DimZ; z++ {
			for x := 0; x < vol.DimX; x++ {
				out.Set(x, z, vol.At(x, index, z))
			}
		}
		return out, nil

	case Sagittal:
		if index < 0 || index >= vol.DimX {
			return nil, newErr(ErrOutOfRange, "ExtractSlice", "x index %d outside [0,%d)", index, vol.DimX)
		}
		_, oy, oz := vol.PhysicalPoint(float64(index), 0, 0)
		dir := Direction2D{{vol.Dir[1][1], vol.Dir[1][2]}, {vol.Dir[2][1], vol.Dir[2][2]}}
		out := NewGrid2D[T](vol.DimY, vol.DimZ, vol.Sy, vol.Sz, oy, oz, dir)
		for z := 0; z < vol.DimZ; z++ {
			for y := 0; y < vol.DimY; y++ {
				out.Set(y, z, vol.At(index, y, z))
			}
		}
		return out, nil

	default:
		return nil, newErr(ErrInvalidArgument, "ExtractSlice", "unknown orientation %d", orientation)
	}
}

// SliceCount returns how many slices vol has along orientation's fixed axis.
func SliceCount[T any](vol *Grid3D[T], orientation Orientation) int {
	return sliceCountGeneric(vol, orientation)
}

// ParallelForEachSlice invokes fn once per slice of vol along orientation,
// using up to maxParallelism worker goroutines (<=0 means one per slice,
// mirroring Grid3D.ParallelIterateSlices). fn receives the slice index and
// its extracted Grid2D; extraction errors are collected and returned
// together rather than aborting the remaining slices.
func ParallelForEachSlice[T any](vol *Grid3D[T], orientation Orientation, fn func(index int, slice *Grid2D[T]), maxParallelism int) []error {
	n := sliceCountGeneric(vol, orientation)
	if n == 0 {
		return nil
	}
	workers := maxParallelism
	if workers <= 0 || workers > n {
		workers = n
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			slice, err := ExtractSlice(vol, orientation, i)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			fn(i, slice)
		}()
	}
	wg.Wait()
	return errs
}

func sliceCountGeneric[T any](vol *Grid3D[T], orientation Orientation) int {
	switch orientation {
	case Axial:
		return vol.DimZ
	case Coronal:
		return vol.DimY
	case Sagittal:
		return vol.DimX
	default:
		return 0
	}
}

// ExtractContoursForVolume walks every slice of vol along orientation,
// extracts and smooths its contours via PolygonsWithHoles, and installs the
// non-empty results into cps (an existing container is reused so callers can
// layer several orientations/volumes into one set). Extraction runs with up
// to maxParallelism worker goroutines; a slice that fails to extract is
// recorded as a SliceError and does not abort the others.
func ExtractContoursForVolume(cps *ContoursPerSlice, vol *Grid3D[byte], orientation Orientation, opts InterpOptions, maxParallelism int, bc *BuildContext) []SliceError {
	var mu sync.Mutex
	var errs []SliceError
	ParallelForEachSlice(vol, orientation, func(index int, slice *Grid2D[byte]) {
		firstID := opts.FirstPolygonID
		if firstID == 0 {
			firstID = 1
		}
		polys, err := PolygonsWithHoles(slice, opts.FgID, firstID, opts.MaxNesting, bc)
		if err != nil {
			mu.Lock()
			errs = append(errs, SliceError{SliceIndex: index, Err: err})
			mu.Unlock()
			return
		}
		if len(polys) > 0 {
			cps.Set(index, polys)
		}
	}, maxParallelism)
	return errs
}

// MirrorX2D returns a copy of g flipped along its X axis. It is its own
// inverse: MirrorX2D(MirrorX2D(g)) reproduces g voxel-for-voxel, which is
// the convention sagittal slices are mirrored under for radiological
// display.
func MirrorX2D[T any](g *Grid2D[T]) *Grid2D[T] {
	out := CreateSameSize2D[T, T](g)
	for y := 0; y < g.DimY; y++ {
		for x := 0; x < g.DimX; x++ {
			out.Set(g.DimX-1-x, y, g.At(x, y))
		}
	}
	return out
}
