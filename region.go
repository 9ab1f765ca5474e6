package voxcontour

import "fmt"

// Region2D is an inclusive min/max box in grid-index space. The canonical
// empty region is (0,-1) on every axis; IsEmpty tests for any max < min,
// not just the canonical value, so arithmetic that under/overflows still
// reads as empty.
type Region2D struct {
	MinX, MaxX int
	MinY, MaxY int
}

// EmptyRegion2D returns the canonical empty 2D region.
func EmptyRegion2D() Region2D { return Region2D{0, -1, 0, -1} }

func (r Region2D) IsEmpty() bool { return r.MaxX < r.MinX || r.MaxY < r.MinY }

func (r Region2D) String() string {
	return fmt.Sprintf("[%d..%d]x[%d..%d]", r.MinX, r.MaxX, r.MinY, r.MaxY)
}

// Size is the voxel count of the region (0 for an empty region).
func (r Region2D) Size() int {
	if r.IsEmpty() {
		return 0
	}
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

func (r Region2D) Contains(x, y int) bool {
	return !r.IsEmpty() && x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// InsideOf reports whether r is entirely contained within other. Fails with
// ErrInvalidState if either region is empty — containment is undefined for
// the canonical empty region.
func (r Region2D) InsideOf(other Region2D) (bool, error) {
	if r.IsEmpty() || other.IsEmpty() {
		return false, newErr(ErrInvalidState, "Region2D.InsideOf", "undefined for an empty region")
	}
	return r.MinX >= other.MinX && r.MaxX <= other.MaxX &&
		r.MinY >= other.MinY && r.MaxY <= other.MaxY, nil
}

// Dilate expands r by a physical margin (using sx, sy spacing to convert to
// whole voxels, rounding up), clamped to bounds.
func (r Region2D) Dilate(marginMM, sx, sy float64, bounds Region2D) Region2D {
	if r.IsEmpty() || marginMM <= 0 {
		return r
	}
	mx := voxelMargin(marginMM, sx)
	my := voxelMargin(marginMM, sy)
	out := Region2D{r.MinX - mx, r.MaxX + mx, r.MinY - my, r.MaxY + my}
	return out.clampTo(bounds)
}

func (r Region2D) clampTo(bounds Region2D) Region2D {
	if bounds.IsEmpty() {
		return r
	}
	if r.MinX < bounds.MinX {
		r.MinX = bounds.MinX
	}
	if r.MaxX > bounds.MaxX {
		r.MaxX = bounds.MaxX
	}
	if r.MinY < bounds.MinY {
		r.MinY = bounds.MinY
	}
	if r.MaxY > bounds.MaxY {
		r.MaxY = bounds.MaxY
	}
	return r
}

// Intersect returns the largest region contained by both r and s, or the
// canonical empty region if they do not overlap.
func (r Region2D) Intersect(s Region2D) Region2D {
	if r.IsEmpty() || s.IsEmpty() {
		return EmptyRegion2D()
	}
	out := Region2D{maxInt(r.MinX, s.MinX), minInt(r.MaxX, s.MaxX), maxInt(r.MinY, s.MinY), minInt(r.MaxY, s.MaxY)}
	if out.IsEmpty() {
		return EmptyRegion2D()
	}
	return out
}

// Union returns the smallest region that contains both r and s.
func (r Region2D) Union(s Region2D) Region2D {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Region2D{minInt(r.MinX, s.MinX), maxInt(r.MaxX, s.MaxX), minInt(r.MinY, s.MinY), maxInt(r.MaxY, s.MaxY)}
}

// Region3D is the 3D counterpart of Region2D.
type Region3D struct {
	MinX, MaxX int
	MinY, MaxY int
	MinZ, MaxZ int
}

func EmptyRegion3D() Region3D { return Region3D{0, -1, 0, -1, 0, -1} }

func (r Region3D) IsEmpty() bool {
	return r.MaxX < r.MinX || r.MaxY < r.MinY || r.MaxZ < r.MinZ
}

func (r Region3D) String() string {
	return fmt.Sprintf("[%d..%d]x[%d..%d]x[%d..%d]", r.MinX, r.MaxX, r.MinY, r.MaxY, r.MinZ, r.MaxZ)
}

func (r Region3D) Size() int {
	if r.IsEmpty() {
		return 0
	}
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1) * (r.MaxZ - r.MinZ + 1)
}

func (r Region3D) Contains(x, y, z int) bool {
	return !r.IsEmpty() && x >= r.MinX && x <= r.MaxX &&
		y >= r.MinY && y <= r.MaxY && z >= r.MinZ && z <= r.MaxZ
}

func (r Region3D) InsideOf(other Region3D) (bool, error) {
	if r.IsEmpty() || other.IsEmpty() {
		return false, newErr(ErrInvalidState, "Region3D.InsideOf", "undefined for an empty region")
	}
	return r.MinX >= other.MinX && r.MaxX <= other.MaxX &&
		r.MinY >= other.MinY && r.MaxY <= other.MaxY &&
		r.MinZ >= other.MinZ && r.MaxZ <= other.MaxZ, nil
}

func (r Region3D) Dilate(marginMM, sx, sy, sz float64, bounds Region3D) Region3D {
	if r.IsEmpty() || marginMM <= 0 {
		return r
	}
	mx, my, mz := voxelMargin(marginMM, sx), voxelMargin(marginMM, sy), voxelMargin(marginMM, sz)
	out := Region3D{r.MinX - mx, r.MaxX + mx, r.MinY - my, r.MaxY + my, r.MinZ - mz, r.MaxZ + mz}
	return out.clampTo(bounds)
}

func (r Region3D) clampTo(bounds Region3D) Region3D {
	if bounds.IsEmpty() {
		return r
	}
	if r.MinX < bounds.MinX {
		r.MinX = bounds.MinX
	}
	if r.MaxX > bounds.MaxX {
		r.MaxX = bounds.MaxX
	}
	if r.MinY < bounds.MinY {
		r.MinY = bounds.MinY
	}
	if r.MaxY > bounds.MaxY {
		r.MaxY = bounds.MaxY
	}
	if r.MinZ < bounds.MinZ {
		r.MinZ = bounds.MinZ
	}
	if r.MaxZ > bounds.MaxZ {
		r.MaxZ = bounds.MaxZ
	}
	return r
}

func (r Region3D) Intersect(s Region3D) Region3D {
	if r.IsEmpty() || s.IsEmpty() {
		return EmptyRegion3D()
	}
	out := Region3D{
		maxInt(r.MinX, s.MinX), minInt(r.MaxX, s.MaxX),
		maxInt(r.MinY, s.MinY), minInt(r.MaxY, s.MaxY),
		maxInt(r.MinZ, s.MinZ), minInt(r.MaxZ, s.MaxZ),
	}
	if out.IsEmpty() {
		return EmptyRegion3D()
	}
	return out
}

func (r Region3D) Union(s Region3D) Region3D {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Region3D{
		minInt(r.MinX, s.MinX), maxInt(r.MaxX, s.MaxX),
		minInt(r.MinY, s.MinY), maxInt(r.MaxY, s.MaxY),
		minInt(r.MinZ, s.MinZ), maxInt(r.MaxZ, s.MaxZ),
	}
}

func voxelMargin(marginMM, spacing float64) int {
	if spacing <= 0 {
		return 0
	}
	n := marginMM / spacing
	i := int(n)
	if float64(i) < n {
		i++
	}
	return i
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
