package voxcontour

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// Direction2D is an orthonormal 2x2 matrix mapping grid axes to physical
// axes. The zero value is not valid; use IdentityDirection2D.
type Direction2D [2][2]float64

// IdentityDirection2D returns the identity direction matrix.
func IdentityDirection2D() Direction2D {
	return Direction2D{{1, 0}, {0, 1}}
}

// Direction3D is an orthonormal 3x3 matrix mapping grid axes to physical
// axes. The zero value is not valid; use IdentityDirection3D.
type Direction3D [3][3]float64

// IdentityDirection3D returns the identity direction matrix.
func IdentityDirection3D() Direction3D {
	return Direction3D{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Grid2D is a dense rectangular array of T, addressed row-major: index
// i = x + y*DimX. Any zero dimension yields an empty grid.
type Grid2D[T any] struct {
	DimX, DimY     int
	Sx, Sy         float64
	OriginX, OriginY float64
	Dir            Direction2D
	Buf            []T
}

// NewGrid2D allocates a Grid2D with the given dimensions, spacing, origin
// and direction. A zero Direction2D is replaced by the identity.
func NewGrid2D[T any](dimX, dimY int, sx, sy, originX, originY float64, dir Direction2D) *Grid2D[T] {
	if dir == (Direction2D{}) {
		dir = IdentityDirection2D()
	}
	return &Grid2D[T]{
		DimX: dimX, DimY: dimY,
		Sx: sx, Sy: sy,
		OriginX: originX, OriginY: originY,
		Dir: dir,
		Buf: make([]T, dimX*dimY),
	}
}

// Index returns the flat buffer index for grid coordinates (x, y). Callers
// are expected to have already checked bounds; Index never does (it is the
// hot path for every fill/extract/morphology loop).
func (g *Grid2D[T]) Index(x, y int) int { return x + y*g.DimX }

// Coordinates is the inverse of Index.
func (g *Grid2D[T]) Coordinates(i int) (x, y int) {
	y = i / g.DimX
	x = i - y*g.DimX
	return
}

func (g *Grid2D[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.DimX && y >= 0 && y < g.DimY
}

func (g *Grid2D[T]) At(x, y int) T  { return g.Buf[g.Index(x, y)] }
func (g *Grid2D[T]) Set(x, y int, v T) { g.Buf[g.Index(x, y)] = v }

// PhysicalPoint maps grid coordinates (x, y) to a physical-space point
// through the direction matrix and spacing.
func (g *Grid2D[T]) PhysicalPoint(x, y float64) (px, py float64) {
	gx, gy := x*g.Sx, y*g.Sy
	px = g.OriginX + g.Dir[0][0]*gx + g.Dir[0][1]*gy
	py = g.OriginY + g.Dir[1][0]*gx + g.Dir[1][1]*gy
	return
}

// CreateSameSize2D returns a new grid of (possibly different) element type
// U sharing g's geometry.
func CreateSameSize2D[T, U any](g *Grid2D[T]) *Grid2D[U] {
	return NewGrid2D[U](g.DimX, g.DimY, g.Sx, g.Sy, g.OriginX, g.OriginY, g.Dir)
}

// MapGrid2D builds a new grid of element type U by applying f to every
// voxel of g, in row-major order.
func MapGrid2D[T, U any](g *Grid2D[T], f func(x, y int, v T) U) *Grid2D[U] {
	out := CreateSameSize2D[T, U](g)
	for y := 0; y < g.DimY; y++ {
		for x := 0; x < g.DimX; x++ {
			out.Set(x, y, f(x, y, g.At(x, y)))
		}
	}
	return out
}

// Crop returns a new grid sized to r's lengths, with origin translated by
// r's minimum voxel. Fails with ErrOutOfRange if r extends outside g.
func (g *Grid2D[T]) Crop(r Region2D) (*Grid2D[T], error) {
	if r.IsEmpty() {
		return NewGrid2D[T](0, 0, g.Sx, g.Sy, g.OriginX, g.OriginY, g.Dir), nil
	}
	if r.MinX < 0 || r.MinY < 0 || r.MaxX >= g.DimX || r.MaxY >= g.DimY {
		return nil, newErr(ErrOutOfRange, "Grid2D.Crop", "region %v outside grid %dx%d", r, g.DimX, g.DimY)
	}
	ox, oy := g.PhysicalPoint(float64(r.MinX), float64(r.MinY))
	out := NewGrid2D[T](r.MaxX-r.MinX+1, r.MaxY-r.MinY+1, g.Sx, g.Sy, ox, oy, g.Dir)
	for y := 0; y < out.DimY; y++ {
		for x := 0; x < out.DimX; x++ {
			out.Set(x, y, g.At(x+r.MinX, y+r.MinY))
		}
	}
	return out, nil
}

// PasteOnto copies g's buffer onto dest, anchored at (startX, startY) in
// dest's coordinate frame. startX/startY may be negative or the paste may
// extend past dest's bounds: only the intersection is copied.
func (g *Grid2D[T]) PasteOnto(dest *Grid2D[T], startX, startY int) {
	for y := 0; y < g.DimY; y++ {
		dy := y + startY
		if dy < 0 || dy >= dest.DimY {
			continue
		}
		for x := 0; x < g.DimX; x++ {
			dx := x + startX
			if dx < 0 || dx >= dest.DimX {
				continue
			}
			dest.Set(dx, dy, g.At(x, y))
		}
	}
}

// InterestRegion2D returns the smallest region enclosing every voxel whose
// value is >= threshold, or the canonical empty region if none qualify.
func InterestRegion2D[T constraints.Ordered](g *Grid2D[T], threshold T) Region2D {
	r := EmptyRegion2D()
	first := true
	for y := 0; y < g.DimY; y++ {
		for x := 0; x < g.DimX; x++ {
			if g.At(x, y) >= threshold {
				if first {
					r = Region2D{x, x, y, y}
					first = false
				} else {
					if x < r.MinX {
						r.MinX = x
					}
					if x > r.MaxX {
						r.MaxX = x
					}
					if y < r.MinY {
						r.MinY = y
					}
					if y > r.MaxY {
						r.MaxY = y
					}
				}
			}
		}
	}
	return r
}

// MaskBoundingBox2D is the minimum region containing every voxel equal to
// fg, empty if there are none.
func MaskBoundingBox2D(g *Grid2D[byte], fg byte) Region2D {
	r := EmptyRegion2D()
	first := true
	for y := 0; y < g.DimY; y++ {
		for x := 0; x < g.DimX; x++ {
			if g.At(x, y) == fg {
				if first {
					r = Region2D{x, x, y, y}
					first = false
				} else {
					if x < r.MinX {
						r.MinX = x
					}
					if x > r.MaxX {
						r.MaxX = x
					}
					if y < r.MinY {
						r.MinY = y
					}
					if y > r.MaxY {
						r.MaxY = y
					}
				}
			}
		}
	}
	return r
}

// Grid3D is the 3D counterpart of Grid2D, row-major with
// i = x + y*DimX + z*DimX*DimY.
type Grid3D[T any] struct {
	DimX, DimY, DimZ     int
	Sx, Sy, Sz           float64
	OriginX, OriginY, OriginZ float64
	Dir                  Direction3D
	Buf                  []T
}

func NewGrid3D[T any](dimX, dimY, dimZ int, sx, sy, sz, ox, oy, oz float64, dir Direction3D) *Grid3D[T] {
	if dir == (Direction3D{}) {
		dir = IdentityDirection3D()
	}
	return &Grid3D[T]{
		DimX: dimX, DimY: dimY, DimZ: dimZ,
		Sx: sx, Sy: sy, Sz: sz,
		OriginX: ox, OriginY: oy, OriginZ: oz,
		Dir: dir,
		Buf: make([]T, dimX*dimY*dimZ),
	}
}

func (g *Grid3D[T]) Index(x, y, z int) int { return x + y*g.DimX + z*g.DimX*g.DimY }

func (g *Grid3D[T]) Coordinates(i int) (x, y, z int) {
	z = i / (g.DimX * g.DimY)
	rem := i - z*g.DimX*g.DimY
	y = rem / g.DimX
	x = rem - y*g.DimX
	return
}

func (g *Grid3D[T]) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.DimX && y >= 0 && y < g.DimY && z >= 0 && z < g.DimZ
}

func (g *Grid3D[T]) At(x, y, z int) T     { return g.Buf[g.Index(x, y, z)] }
func (g *Grid3D[T]) Set(x, y, z int, v T) { g.Buf[g.Index(x, y, z)] = v }

func (g *Grid3D[T]) PhysicalPoint(x, y, z float64) (px, py, pz float64) {
	gx, gy, gz := x*g.Sx, y*g.Sy, z*g.Sz
	px = g.OriginX + g.Dir[0][0]*gx + g.Dir[0][1]*gy + g.Dir[0][2]*gz
	py = g.OriginY + g.Dir[1][0]*gx + g.Dir[1][1]*gy + g.Dir[1][2]*gz
	pz = g.OriginZ + g.Dir[2][0]*gx + g.Dir[2][1]*gy + g.Dir[2][2]*gz
	return
}

func CreateSameSize3D[T, U any](g *Grid3D[T]) *Grid3D[U] {
	return NewGrid3D[U](g.DimX, g.DimY, g.DimZ, g.Sx, g.Sy, g.Sz, g.OriginX, g.OriginY, g.OriginZ, g.Dir)
}

func MapGrid3D[T, U any](g *Grid3D[T], f func(x, y, z int, v T) U) *Grid3D[U] {
	out := CreateSameSize3D[T, U](g)
	g.ParallelIterateSlices(func(x, y, z int) {
		out.Set(x, y, z, f(x, y, z, g.At(x, y, z)))
	}, 0)
	return out
}

// ParallelIterateSlices invokes action on every (x, y, z) of g, parallelised
// over z. maxParallelism <= 0 means "use one worker per z-slice".
func (g *Grid3D[T]) ParallelIterateSlices(action func(x, y, z int), maxParallelism int) {
	if g.DimZ == 0 {
		return
	}
	workers := maxParallelism
	if workers <= 0 {
		workers = g.DimZ
	}
	if workers > g.DimZ {
		workers = g.DimZ
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for z := 0; z < g.DimZ; z++ {
		z := z
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			for y := 0; y < g.DimY; y++ {
				for x := 0; x < g.DimX; x++ {
					action(x, y, z)
				}
			}
		}()
	}
	wg.Wait()
}

// Crop returns a new grid sized to r's lengths, with origin translated by
// r's minimum voxel.
func (g *Grid3D[T]) Crop(r Region3D) (*Grid3D[T], error) {
	if r.IsEmpty() {
		return NewGrid3D[T](0, 0, 0, g.Sx, g.Sy, g.Sz, g.OriginX, g.OriginY, g.OriginZ, g.Dir), nil
	}
	if r.MinX < 0 || r.MinY < 0 || r.MinZ < 0 || r.MaxX >= g.DimX || r.MaxY >= g.DimY || r.MaxZ >= g.DimZ {
		return nil, newErr(ErrOutOfRange, "Grid3D.Crop", "region %v outside grid %dx%dx%d", r, g.DimX, g.DimY, g.DimZ)
	}
	ox, oy, oz := g.PhysicalPoint(float64(r.MinX), float64(r.MinY), float64(r.MinZ))
	out := NewGrid3D[T](r.MaxX-r.MinX+1, r.MaxY-r.MinY+1, r.MaxZ-r.MinZ+1, g.Sx, g.Sy, g.Sz, ox, oy, oz, g.Dir)
	for z := 0; z < out.DimZ; z++ {
		for y := 0; y < out.DimY; y++ {
			for x := 0; x < out.DimX; x++ {
				out.Set(x, y, z, g.At(x+r.MinX, y+r.MinY, z+r.MinZ))
			}
		}
	}
	return out, nil
}

// PasteOnto copies g's buffer onto dest, anchored at (startX, startY,
// startZ) in dest's frame; only the intersection is copied.
func (g *Grid3D[T]) PasteOnto(dest *Grid3D[T], startX, startY, startZ int) {
	for z := 0; z < g.DimZ; z++ {
		dz := z + startZ
		if dz < 0 || dz >= dest.DimZ {
			continue
		}
		for y := 0; y < g.DimY; y++ {
			dy := y + startY
			if dy < 0 || dy >= dest.DimY {
				continue
			}
			for x := 0; x < g.DimX; x++ {
				dx := x + startX
				if dx < 0 || dx >= dest.DimX {
					continue
				}
				dest.Set(dx, dy, dz, g.At(x, y, z))
			}
		}
	}
}

// MaskBoundingBox3D is the minimum region containing every voxel equal to
// fg, empty if there are none.
func MaskBoundingBox3D(g *Grid3D[byte], fg byte) Region3D {
	r := EmptyRegion3D()
	first := true
	for z := 0; z < g.DimZ; z++ {
		for y := 0; y < g.DimY; y++ {
			for x := 0; x < g.DimX; x++ {
				if g.At(x, y, z) != fg {
					continue
				}
				if first {
					r = Region3D{x, x, y, y, z, z}
					first = false
					continue
				}
				if x < r.MinX {
					r.MinX = x
				}
				if x > r.MaxX {
					r.MaxX = x
				}
				if y < r.MinY {
					r.MinY = y
				}
				if y > r.MaxY {
					r.MaxY = y
				}
				if z < r.MinZ {
					r.MinZ = z
				}
				if z > r.MaxZ {
					r.MaxZ = z
				}
			}
		}
	}
	return r
}
