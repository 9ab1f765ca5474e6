package voxcontour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalYAMLRoundTrips(t *testing.T) {
	cps := NewContoursPerSlice()
	cps.Set(0, []ContourPolygon{{
		Points:           []Point2D{{0, 0}, {1, 0}, {1, 1}},
		RegionAreaPixels: 9,
	}})
	cps.Set(3, []ContourPolygon{{Points: []Point2D{{2, 2}}, RegionAreaPixels: 1}})

	data, err := MarshalYAML(cps)
	require.NoError(t, err)

	back, err := UnmarshalYAML(data)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 3}, back.SlicesWithContours())

	list0, ok := back.TryContoursForSlice(0)
	require.True(t, ok)
	require.Len(t, list0, 1)
	assert.Equal(t, uint64(9), list0[0].RegionAreaPixels)
	assert.Equal(t, []Point2D{{0, 0}, {1, 0}, {1, 1}}, list0[0].Points)

	list3, ok := back.TryContoursForSlice(3)
	require.True(t, ok)
	assert.Equal(t, uint64(1), list3[0].RegionAreaPixels)
}

func TestUnmarshalYAMLRejectsInvalidDocument(t *testing.T) {
	_, err := UnmarshalYAML([]byte("slices: [not-a-mapping"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMarshalYAMLEmptyContainerRoundTrips(t *testing.T) {
	cps := NewContoursPerSlice()
	data, err := MarshalYAML(cps)
	require.NoError(t, err)
	back, err := UnmarshalYAML(data)
	require.NoError(t, err)
	assert.Empty(t, back.SlicesWithContours())
}
