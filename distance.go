package voxcontour

import "math"

// distanceOffset2D is one chamfer neighbour offset together with its
// physical-distance weight (Euclidean norm of the offset scaled by spacing).
type distanceOffset2D struct {
	dx, dy int
	weight float64
}

// distanceOffset3D is the 3D counterpart of distanceOffset2D.
type distanceOffset3D struct {
	dx, dy, dz int
	weight     float64
}

// chamferOffsets2D builds the 8 non-zero 3x3 neighbour offsets weighted by
// sx/sy, split into the "past" half-space (scanned by the forward pass) and
// its point-mirror (scanned by the backward pass).
func chamferOffsets2D(sx, sy float64) (forward, backward []distanceOffset2D) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			w := math.Hypot(float64(dx)*sx, float64(dy)*sy)
			if dy < 0 || (dy == 0 && dx < 0) {
				forward = append(forward, distanceOffset2D{dx, dy, w})
				backward = append(backward, distanceOffset2D{-dx, -dy, w})
			}
		}
	}
	return
}

// chamferOffsets3D builds the 26 non-zero 3x3x3 neighbour offsets, split the
// same way as chamferOffsets2D.
func chamferOffsets3D(sx, sy, sz float64) (forward, backward []distanceOffset3D) {
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				w := math.Sqrt(float64(dx)*float64(dx)*sx*sx + float64(dy)*float64(dy)*sy*sy + float64(dz)*float64(dz)*sz*sz)
				if dz < 0 || (dz == 0 && dy < 0) || (dz == 0 && dy == 0 && dx < 0) {
					forward = append(forward, distanceOffset3D{dx, dy, dz, w})
					backward = append(backward, distanceOffset3D{-dx, -dy, -dz, w})
				}
			}
		}
	}
	return
}

// DistanceTransform2D computes a two-pass chamfer approximation of the
// Euclidean distance from every voxel inside roi to the nearest voxel equal
// to fg, weighted by the grid's physical spacing. Voxels outside roi are
// left at +Inf. iterations <= 0 defaults to 1.
func DistanceTransform2D(mask *Grid2D[byte], fg byte, roi Region2D, iterations int, bc *BuildContext) (*Grid2D[float64], error) {
	if mask == nil {
		return nil, newErr(ErrInvalidArgument, "DistanceTransform2D", "mask must not be nil")
	}
	if iterations <= 0 {
		iterations = 1
	}
	bc.StartTimer(TimerDistanceTransform)
	defer bc.StopTimer(TimerDistanceTransform)

	out := CreateSameSize2D[byte, float64](mask)
	for y := 0; y < mask.DimY; y++ {
		for x := 0; x < mask.DimX; x++ {
			if roi.Contains(x, y) && mask.At(x, y) == fg {
				out.Set(x, y, 0)
			} else {
				out.Set(x, y, math.Inf(1))
			}
		}
	}
	if roi.IsEmpty() {
		return out, nil
	}

	forward, backward := chamferOffsets2D(mask.Sx, mask.Sy)
	for iter := 0; iter < iterations; iter++ {
		for y := roi.MinY; y <= roi.MaxY; y++ {
			for x := roi.MinX; x <= roi.MaxX; x++ {
				relax2D(out, roi, x, y, forward)
			}
		}
		for y := roi.MaxY; y >= roi.MinY; y-- {
			for x := roi.MaxX; x >= roi.MinX; x-- {
				relax2D(out, roi, x, y, backward)
			}
		}
	}
	return out, nil
}

func relax2D(out *Grid2D[float64], roi Region2D, x, y int, offsets []distanceOffset2D) {
	best := out.At(x, y)
	for _, o := range offsets {
		nx, ny := x+o.dx, y+o.dy
		if !roi.Contains(nx, ny) {
			continue
		}
		cand := out.At(nx, ny) + o.weight
		if cand < best {
			best = cand
		}
	}
	out.Set(x, y, best)
}

// DistanceTransform3D is the 3D counterpart of DistanceTransform2D, scanning
// 3x3x3 neighbourhoods within roi.
func DistanceTransform3D(mask *Grid3D[byte], fg byte, roi Region3D, iterations int, bc *BuildContext) (*Grid3D[float64], error) {
	if mask == nil {
		return nil, newErr(ErrInvalidArgument, "DistanceTransform3D", "mask must not be nil")
	}
	if iterations <= 0 {
		iterations = 1
	}
	bc.StartTimer(TimerDistanceTransform)
	defer bc.StopTimer(TimerDistanceTransform)

	out := CreateSameSize3D[byte, float64](mask)
	for z := 0; z < mask.DimZ; z++ {
		for y := 0; y < mask.DimY; y++ {
			for x := 0; x < mask.DimX; x++ {
				if roi.Contains(x, y, z) && mask.At(x, y, z) == fg {
					out.Set(x, y, z, 0)
				} else {
					out.Set(x, y, z, math.Inf(1))
				}
			}
		}
	}
	if roi.IsEmpty() {
		return out, nil
	}

	forward, backward := chamferOffsets3D(mask.Sx, mask.Sy, mask.Sz)
	for iter := 0; iter < iterations; iter++ {
		for z := roi.MinZ; z <= roi.MaxZ; z++ {
			for y := roi.MinY; y <= roi.MaxY; y++ {
				for x := roi.MinX; x <= roi.MaxX; x++ {
					relax3D(out, roi, x, y, z, forward)
				}
			}
		}
		for z := roi.MaxZ; z >= roi.MinZ; z-- {
			for y := roi.MaxY; y >= roi.MinY; y-- {
				for x := roi.MaxX; x >= roi.MinX; x-- {
					relax3D(out, roi, x, y, z, backward)
				}
			}
		}
	}
	return out, nil
}

func relax3D(out *Grid3D[float64], roi Region3D, x, y, z int, offsets []distanceOffset3D) {
	best := out.At(x, y, z)
	for _, o := range offsets {
		nx, ny, nz := x+o.dx, y+o.dy, z+o.dz
		if !roi.Contains(nx, ny, nz) {
			continue
		}
		cand := out.At(nx, ny, nz) + o.weight
		if cand < best {
			best = cand
		}
	}
	out.Set(x, y, z, best)
}
