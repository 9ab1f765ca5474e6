package voxcontour

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// offset3 is one structuring-element sample relative to its centre voxel.
type offset3 struct{ dx, dy, dz int }

// StructuringElement3D is an ellipsoidal neighbourhood, expressed as whole
// voxel offsets, built from a physical radius vector and the grid spacing it
// was measured against. Surface holds only the offsets lying on the
// ellipsoid's outer shell (stepping the offset one voxel further from the
// centre along its own direction leaves the ellipsoid), used by the
// surface-only dilate/erode variants.
type StructuringElement3D struct {
	Radius  d3.Vec3 // physical radius (mx, my, mz) in mm, as given to BuildEllipsoidSE
	Offsets []offset3
	Surface []offset3
}

// BuildEllipsoidSE converts physical margins (mx, my, mz) in mm to voxel
// half-sizes via the grid spacing (nx = round(mx/sx), ...), then enumerates
// every integer offset inside the resulting axis-aligned ellipsoid
// (dx/nx)^2 + (dy/ny)^2 + (dz/nz)^2 <= 1. An axis whose half-size rounds to 0
// is treated as 1 on that axis (rather than excluded from the sum) to avoid
// dividing by zero; the enumeration still visits only offset 0 on that axis.
func BuildEllipsoidSE(mx, my, mz, sx, sy, sz float64) StructuringElement3D {
	nx := voxelHalfSize(mx, sx)
	ny := voxelHalfSize(my, sy)
	nz := voxelHalfSize(mz, sz)

	se := StructuringElement3D{Radius: d3.Vec3{float32(mx), float32(my), float32(mz)}}
	for dz := -nz; dz <= nz; dz++ {
		for dy := -ny; dy <= ny; dy++ {
			for dx := -nx; dx <= nx; dx++ {
				if !insideEllipsoid(dx, dy, dz, nx, ny, nz) {
					continue
				}
				se.Offsets = append(se.Offsets, offset3{dx, dy, dz})
				if isEllipsoidSurface(dx, dy, dz, nx, ny, nz) {
					se.Surface = append(se.Surface, offset3{dx, dy, dz})
				}
			}
		}
	}
	return se
}

func voxelHalfSize(marginMM, spacing float64) int {
	if spacing <= 0 {
		return 0
	}
	return int(math32.Round(float32(marginMM / spacing)))
}

// ellipsoidValue treats a zero half-size axis as 1: this keeps every
// (d/n)^2 term well-defined and still forces that axis's offset to 0 or ±1,
// rather than excluding the axis from the sum entirely.
func ellipsoidValue(dx, dy, dz, nx, ny, nz int) float32 {
	axisTerm := func(d, n int) float32 {
		if n == 0 {
			n = 1
		}
		v := float32(d) / float32(n)
		return v * v
	}
	return axisTerm(dx, nx) + axisTerm(dy, ny) + axisTerm(dz, nz)
}

func insideEllipsoid(dx, dy, dz, nx, ny, nz int) bool {
	return ellipsoidValue(dx, dy, dz, nx, ny, nz) <= 1
}

// isEllipsoidSurface reports whether pushing (dx,dy,dz) one voxel further
// from the origin along its own direction would leave the ellipsoid,
// meaning it already sits on the outer shell.
func isEllipsoidSurface(dx, dy, dz, nx, ny, nz int) bool {
	step := func(d int) int {
		switch {
		case d > 0:
			return d + 1
		case d < 0:
			return d - 1
		default:
			return 0
		}
	}
	return !insideEllipsoid(step(dx), step(dy), step(dz), nx, ny, nz)
}

// Dilate paints, for every foreground voxel of input, every SE offset into
// output at the corresponding translated position, skipping voxels where
// restriction (if non-nil) holds background. Output starts as a copy of
// input, so the result is a superset of the input mask.
func Dilate(input *Grid3D[byte], fg byte, se StructuringElement3D, restriction *Grid3D[byte], restrictionFg byte, bc *BuildContext) *Grid3D[byte] {
	bc.StartTimer(TimerMorphology)
	defer bc.StopTimer(TimerMorphology)
	return morph3D(input, fg, se.Offsets, restriction, restrictionFg, false)
}

// DilateSurfaceOnly behaves like Dilate but only expands from voxels that
// are themselves on the surface of the input mask (have at least one
// non-foreground 6-connected neighbour), and only paints the SE's own
// surface offsets. It costs a fraction of Dilate for masks whose interior
// dominates their surface; its result is not always identical to Dilate's
// (for a single-voxel mask it omits the SE's interior offsets).
func DilateSurfaceOnly(input *Grid3D[byte], fg byte, se StructuringElement3D, restriction *Grid3D[byte], restrictionFg byte, bc *BuildContext) *Grid3D[byte] {
	bc.StartTimer(TimerMorphology)
	defer bc.StopTimer(TimerMorphology)
	return morph3D(input, fg, se.Surface, restriction, restrictionFg, true)
}

// Erode paints the complement with Dilate and complements the result back:
// eroding the foreground by a symmetric SE is equivalent to dilating the
// background by the same SE and inverting.
func Erode(input *Grid3D[byte], fg byte, se StructuringElement3D, restriction *Grid3D[byte], restrictionFg byte, bc *BuildContext) *Grid3D[byte] {
	bc.StartTimer(TimerMorphology)
	defer bc.StopTimer(TimerMorphology)
	complement := CreateSameSize3D[byte, byte](input)
	for i, v := range input.Buf {
		if v == fg {
			complement.Buf[i] = 0
		} else {
			complement.Buf[i] = fg
		}
	}
	dilated := morph3D(complement, fg, se.Offsets, restriction, restrictionFg, false)
	out := CreateSameSize3D[byte, byte](input)
	for i, v := range dilated.Buf {
		if v == fg {
			out.Buf[i] = 0
		} else {
			out.Buf[i] = fg
		}
	}
	return out
}

func morph3D(input *Grid3D[byte], fg byte, offsets []offset3, restriction *Grid3D[byte], restrictionFg byte, surfaceOnly bool) *Grid3D[byte] {
	out := CreateSameSize3D[byte, byte](input)
	copy(out.Buf, input.Buf)

	for z := 0; z < input.DimZ; z++ {
		for y := 0; y < input.DimY; y++ {
			for x := 0; x < input.DimX; x++ {
				if input.At(x, y, z) != fg {
					continue
				}
				if surfaceOnly && !isSurfaceVoxel(input, fg, x, y, z) {
					continue
				}
				for _, o := range offsets {
					nx, ny, nz := x+o.dx, y+o.dy, z+o.dz
					if !input.InBounds(nx, ny, nz) {
						continue
					}
					if restriction != nil && restriction.At(nx, ny, nz) != restrictionFg {
						continue
					}
					out.Set(nx, ny, nz, fg)
				}
			}
		}
	}
	return out
}

func isSurfaceVoxel(g *Grid3D[byte], fg byte, x, y, z int) bool {
	neighbours := [6][3]int{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for _, n := range neighbours {
		nx, ny, nz := x+n[0], y+n[1], z+n[2]
		if !g.InBounds(nx, ny, nz) || g.At(nx, ny, nz) != fg {
			return true
		}
	}
	return false
}
