// Package imaging provides the raster plumbing underneath staff detection.
//
// It covers four concerns:
//   - decoding and caching score pages (ImageCache, Decode, DecodeBase64)
//   - a compact two-level bitmap (Binary) with rectangular morphology
//     (DilateRect, ErodeRect, CloseRect, HorizontalRuns)
//   - cropping detected elements into classifier-sized patches (CropElement)
//   - drawing parsed structure back onto a page (RenderOverlay)
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Boxes use the
// score.BoundingBox convention: (X, Y) is inclusive, X+Width and Y+Height are
// exclusive.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Morphology functions never
// modify their input and always allocate a new Binary, so a Binary can be
// shared read-only between goroutines.
//
// # Error Handling
//
// Open and decode failures match score.ErrImageLoad via errors.Is. Crop and
// overlay functions return plain wrapped errors for empty regions and
// encoding failures.
package imaging
