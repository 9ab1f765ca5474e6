package voxcontour

import "math"

// VolumeStats summarises a short-valued image over the voxels where a byte
// mask equals its foreground ID.
type VolumeStats struct {
	VoxelCount int64
	Mean       float64
	StdDev     float64
	VolumeCC   float64
}

// ComputeVolumeStats accumulates mean, population standard deviation, and
// cubic-centimetre volume over every voxel of image where mask == fg, using
// Welford's online algorithm to keep the variance accumulation numerically
// stable over large volumes. voxelVolumeMm3 is the physical volume of a
// single voxel (sx*sy*sz); volumeCC = count * voxelVolumeMm3 / 1000.
func ComputeVolumeStats(image *Grid3D[int16], mask *Grid3D[byte], fg byte, voxelVolumeMm3 float64, bc *BuildContext) (VolumeStats, error) {
	if image == nil || mask == nil {
		return VolumeStats{}, newErr(ErrInvalidArgument, "ComputeVolumeStats", "image and mask must not be nil")
	}
	if image.DimX != mask.DimX || image.DimY != mask.DimY || image.DimZ != mask.DimZ {
		return VolumeStats{}, newErr(ErrInvalidArgument, "ComputeVolumeStats", "image %dx%dx%d and mask %dx%dx%d must have equal dimensions",
			image.DimX, image.DimY, image.DimZ, mask.DimX, mask.DimY, mask.DimZ)
	}

	bc.StartTimer(TimerStatistics)
	defer bc.StopTimer(TimerStatistics)

	var count int64
	var mean, m2 float64
	for i := range mask.Buf {
		if mask.Buf[i] != fg {
			continue
		}
		count++
		x := float64(image.Buf[i])
		delta := x - mean
		mean += delta / float64(count)
		m2 += delta * (x - mean)
	}

	var stdDev float64
	if count > 0 {
		variance := m2 / float64(count)
		stdDev = math.Sqrt(variance)
	}

	bc.Progressf("computed statistics over %d voxels", count)
	return VolumeStats{
		VoxelCount: count,
		Mean:       mean,
		StdDev:     stdDev,
		VolumeCC:   float64(count) * voxelVolumeMm3 / 1000,
	}, nil
}

