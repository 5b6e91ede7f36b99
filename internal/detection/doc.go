// Package detection implements the staff parsing pipeline: it finds staff
// systems on a page image, extracts the symbols written on them and ties
// each symbol to its staff.
//
// # Pipeline
//
// Parser.Parse chains the stages below. Each stage is also exported so it
// can be run and inspected on its own:
//
//  1. Preprocess: grayscale, downscale, invert, adaptive threshold
//  2. DetectStaffMask: pixels on long horizontal runs (staff lines)
//  3. DetectStaffLines: group mask lines into ordered staff systems
//  4. DetectComponents: remove staff lines, dilate, trace remaining shapes
//  5. MergeComponents: join overlapping fragments into symbol candidates
//  6. SuppressText: optionally drop candidates covered by words
//  7. AssembleNotes: assign candidates to staves and order them
//
// Stages 3 and 4-6 only read the binary image and the staff mask, so Parse
// runs them concurrently and joins before assembly.
//
// # Coordinate System
//
// All coordinates are in the working space produced by Preprocess (the
// page downscaled so its longer side is at most Config.MaxDimension):
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Score.ToSource maps positions back to the input image.
//
// # Determinism
//
// Every ordering in the pipeline has an explicit tie-break, so the same
// image and configuration always produce the same indices and boxes.
//
// # Filtering
//
// Noise is absorbed, not reported as an error: undersized bands and shapes,
// degenerate merges and symbols far from every staff are dropped and counted
// in score.Stats. Only unusable input (score.ErrImageLoad), pages without a
// staff (score.ErrNoStaffDetected) and invalid configuration
// (score.ErrConfigValidation) fail a parse.
package detection
