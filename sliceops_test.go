package voxcontour

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallVolume() *Grid3D[byte] {
	vol := NewGrid3D[byte](3, 4, 5, 1, 1, 1, 0, 0, 0, IdentityDirection3D())
	for z := 0; z < 5; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 3; x++ {
				vol.Set(x, y, z, byte(x+y*10+z*100))
			}
		}
	}
	return vol
}

func TestExtractSliceAxialCopiesXYPlane(t *testing.T) {
	vol := smallVolume()
	slice, err := ExtractSlice(vol, Axial, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, slice.DimX)
	assert.Equal(t, 4, slice.DimY)
	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, vol.At(x, y, 2), slice.At(x, y))
		}
	}
}

func TestExtractSliceCoronalCopiesXZPlane(t *testing.T) {
	vol := smallVolume()
	slice, err := ExtractSlice(vol, Coronal, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, slice.DimX)
	assert.Equal(t, 5, slice.DimY)
	for z := 0; z < 5; z++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, vol.At(x, 1, z), slice.At(x, z))
		}
	}
}

func TestExtractSliceSagittalCopiesYZPlane(t *testing.T) {
	vol := smallVolume()
	slice, err := ExtractSlice(vol, Sagittal, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, slice.DimX)
	assert.Equal(t, 5, slice.DimY)
	for z := 0; z < 5; z++ {
		for y := 0; y < 4; y++ {
			assert.Equal(t, vol.At(0, y, z), slice.At(y, z))
		}
	}
}

func TestExtractSliceRejectsOutOfRangeIndex(t *testing.T) {
	vol := smallVolume()
	_, err := ExtractSlice(vol, Axial, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParallelForEachSliceVisitsEverySliceExactlyOnce(t *testing.T) {
	vol := smallVolume()
	var mu sync.Mutex
	seen := map[int]bool{}
	errs := ParallelForEachSlice(vol, Axial, func(index int, slice *Grid2D[byte]) {
		mu.Lock()
		seen[index] = true
		mu.Unlock()
		assert.Equal(t, byte(index*100), slice.At(0, 0))
	}, 2)
	assert.Empty(t, errs)
	var got []int
	for k := range seen {
		got = append(got, k)
	}
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestExtractContoursForVolumePopulatesOneEntryPerForegroundSlice(t *testing.T) {
	vol := NewGrid3D[byte](10, 10, 3, 1, 1, 1, 0, 0, 0, IdentityDirection3D())
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			vol.Set(x, y, 1, 1)
		}
	}

	cps := NewContoursPerSlice()
	errs := ExtractContoursForVolume(cps, vol, Axial, InterpOptions{FgID: 1, FirstPolygonID: 1}, 2, nil)
	assert.Empty(t, errs)
	assert.ElementsMatch(t, []int{1}, cps.SlicesWithContours())

	polys, ok := cps.TryContoursForSlice(1)
	require.True(t, ok)
	require.Len(t, polys, 1)
	assert.NotEmpty(t, polys[0].Points)
}

func TestMirrorX2DIsInvolution(t *testing.T) {
	g := NewGrid2D[byte](4, 3, 1, 1, 0, 0, IdentityDirection2D())
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			g.Set(x, y, byte(x+y*10))
		}
	}
	mirrored := MirrorX2D(g)
	twice := MirrorX2D(mirrored)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, g.At(x, y), twice.At(x, y))
		}
	}
	assert.NotEqual(t, g.At(0, 0), mirrored.At(0, 0))
}
