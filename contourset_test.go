package voxcontour

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onePolygon(areaPixels uint64) []ContourPolygon {
	return []ContourPolygon{{RegionAreaPixels: areaPixels}}
}

func TestContoursForSliceFailsWhenMissing(t *testing.T) {
	c := NewContoursPerSlice()
	_, err := c.ContoursForSlice(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSetThenContainsKeyAndTry(t *testing.T) {
	c := NewContoursPerSlice()
	c.Set(5, onePolygon(1))
	assert.True(t, c.ContainsKey(5))
	got, ok := c.TryContoursForSlice(5)
	require.True(t, ok)
	assert.Equal(t, uint64(1), got[0].RegionAreaPixels)

	c.Set(5, nil)
	assert.False(t, c.ContainsKey(5))
}

func TestReplaceClearsAndCopiesNonEmptyEntries(t *testing.T) {
	dst := NewContoursPerSlice()
	dst.Set(9, onePolygon(9))

	src := NewContoursPerSlice()
	src.Set(1, onePolygon(1))
	src.Set(2, nil) // empty entries never survive into a snapshot

	dst.Replace(src)
	assert.False(t, dst.ContainsKey(9), "replace must clear prior state")
	assert.True(t, dst.ContainsKey(1))
	assert.False(t, dst.ContainsKey(2))
}

func TestAppendOverwritesAddsAndRemoves(t *testing.T) {
	dst := NewContoursPerSlice()
	dst.Set(1, onePolygon(1))
	dst.Set(2, onePolygon(2))

	src := NewContoursPerSlice()
	src.Set(1, onePolygon(100)) // overwrite
	src.slices[2] = nil         // remove: an empty entry (Set(2, nil) would drop the key instead)
	src.Set(3, onePolygon(3))   // add

	dst.Append(src)
	got1, _ := dst.TryContoursForSlice(1)
	assert.Equal(t, uint64(100), got1[0].RegionAreaPixels)
	assert.False(t, dst.ContainsKey(2))
	assert.True(t, dst.ContainsKey(3))
}

func TestMutationsRaiseSingleChangeEvent(t *testing.T) {
	c := NewContoursPerSlice()
	var mu sync.Mutex
	count := 0
	c.Subscribe(func(ChangeEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	c.Set(1, onePolygon(1))
	other := NewContoursPerSlice()
	other.Set(2, onePolygon(2))
	c.Append(other)
	c.Replace(other)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, count)
}
