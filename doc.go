// Package voxcontour extracts, fills, simplifies and interpolates 2D/3D
// contours from discrete voxel grids (binary masks) representing medical
// image segmentations.
//
// The core of the package is the contour<->mask round trip: PolygonsWithHoles
// turns a binary mask slice into a set of fractional, hole-free
// ContourPolygons (extracting each region's nested outer/hole rings with
// ExtractContours, smoothing them with SmoothContour, then splicing every
// hole into its outer ring), and Fill rasterizes a polygon back onto a mask
// with exact sub-pixel fill rules. Around this pair, the package layers
// per-slice extraction from a 3D volume (ExtractSlice, ParallelForEachSlice,
// ExtractContoursForVolume), linear between-slice interpolation
// (InterpolateRange), a thread-safe per-slice contour container
// (ContoursPerSlice), a chamfer distance transform
// (DistanceTransform2D/DistanceTransform3D), ellipsoidal morphology
// (Dilate/DilateSurfaceOnly/Erode) and per-mask statistics
// (ComputeVolumeStats).
//
// Medical file I/O, CLI front-ends, logging frameworks, debug
// visualisation, histogram/window-level computation, resampling and
// Gaussian convolution are treated as external collaborators and are
// out of scope: this package accepts and returns plain grids.
package voxcontour
