// Package score defines the structured representation produced by the staff
// parser: staff systems, the symbol candidates attached to them, and the
// geometry, configuration and error types shared by every pipeline stage.
//
// # Coordinate System
//
// Unless stated otherwise, coordinates are in the working space of the
// preprocessed image (after downscaling to Config.MaxDimension):
//   - Origin (0, 0) at top-left corner
//   - X increases rightward, Y increases downward
//   - BoundingBox is (X, Y, Width, Height) with X/Y inclusive; a box covering
//     a single pixel has Width == Height == 1
//
// Score.ToSource maps working coordinates back to the source image.
//
// # Staff Spaces
//
// Relative positions are expressed in staff spaces: one unit equals the
// distance between two adjacent lines of a five-line staff, derived as the
// staff band height divided by 4. A RelativePosition.Y of 0 is the top line
// and 4 is the bottom line.
//
// # Mutability
//
// Records are built once by a single Parse call. Only the optional Key (on
// StaffLine) and Label (on Note) are meant to be set afterwards, by
// classification collaborators. Both are pointers so that "unset" marshals as
// null and is distinguishable from an empty value.
package score
