package detection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/staffscan/internal/imaging"
	"github.com/ironsheep/staffscan/internal/score"
)

// minStaffRun is the shortest horizontal run, in pixels, that can count as
// part of a staff line regardless of image width.
const minStaffRun = 15

// StaffResult contains the staff systems found on a page.
type StaffResult struct {
	// StaffLines are ordered top to bottom with Index assigned. Notes are
	// empty at this stage.
	StaffLines []score.StaffLine `json:"staff_lines"`

	// Candidates is the number of banded shapes before filtering.
	Candidates int `json:"candidates"`

	// TooSmall is the number of candidates below MinStaffArea.
	TooSmall int `json:"too_small"`

	// Merged is the number of bands folded into an overlapping neighbour.
	Merged int `json:"merged"`

	// LineGap is the median background gap between adjacent lines.
	LineGap float64 `json:"line_gap"`

	// LineThickness is the median vertical thickness of a line.
	LineThickness float64 `json:"line_thickness"`
}

// Space returns the estimated line-to-line distance in pixels.
func (r *StaffResult) Space() float64 {
	return r.LineGap + r.LineThickness
}

// DetectStaffMask isolates staff-line pixels: every foreground pixel that
// lies on a horizontal run of at least max(15, StaffRunFraction × width)
// pixels. Note heads, stems and text are too short to survive, while the
// parts of a staff line crossing a note head are kept.
//
// The mask only depends on the binary image, so symbol extraction can start
// before staff systems are grouped and indexed.
func DetectStaffMask(bin *imaging.Binary, cfg score.Config) *imaging.Binary {
	length := max(minStaffRun, int(math.Ceil(cfg.StaffRunFraction*float64(bin.Width))))
	return imaging.HorizontalRuns(bin, length)
}

// DetectStaffLines groups the lines of a staff mask into staff systems.
//
// Parameters:
//   - mask: Output of DetectStaffMask.
//   - cfg: Uses StaffDilation, MinStaffArea and StaffOverlapTolerance.
//
// Returns:
//   - *StaffResult: Ordered staff systems and filtering counts.
//   - error: ErrNoStaffDetected when no system survives filtering.
//
// # Algorithm
//
//  1. Spacing: per column, measure background gaps between line runs and
//     take the median (StaffDilation when the mask has no gaps)
//  2. Banding: close the mask with a rectangle StaffDilation×4 wide and
//     half a gap tall, which bridges broken lines and fuses the five lines
//     of a system into one solid band without growing its outer extent
//  3. Extraction: trace 8-connected bands and drop those whose bounding
//     box area is below MinStaffArea
//  4. Merging: bands overlapping vertically by more than
//     StaffOverlapTolerance pixels become one system
//  5. Ordering: sort by vertical center (ties by X) and assign Index
func DetectStaffLines(mask *imaging.Binary, cfg score.Config) (*StaffResult, error) {
	gap, thickness := estimateLineSpacing(mask)
	if gap <= 0 {
		gap = float64(cfg.StaffDilation)
	}

	rx := 4 * cfg.StaffDilation
	ry := int(math.Ceil(gap/2)) + 1
	bands, _ := labelComponents(imaging.CloseRect(mask, rx, ry), 1)

	result := &StaffResult{
		Candidates:    len(bands),
		LineGap:       gap,
		LineThickness: thickness,
	}

	kept := make([]Component, 0, len(bands))
	for _, b := range bands {
		if b.Bounds.Area() < cfg.MinStaffArea {
			result.TooSmall++
			continue
		}
		kept = append(kept, b)
	}

	merged := mergeOverlappingBands(kept, cfg.StaffOverlapTolerance)
	result.Merged = len(kept) - len(merged)

	sort.SliceStable(merged, func(i, j int) bool {
		ci, cj := merged[i].Bounds.Center(), merged[j].Bounds.Center()
		if ci.Y != cj.Y {
			return ci.Y < cj.Y
		}
		return ci.X < cj.X
	})

	if len(merged) == 0 {
		return result, score.Errorf(score.ErrNoStaffDetected,
			"%d candidate bands, %d below min_staff_area=%d",
			result.Candidates, result.TooSmall, cfg.MinStaffArea)
	}

	result.StaffLines = make([]score.StaffLine, len(merged))
	for i, b := range merged {
		result.StaffLines[i] = score.StaffLine{
			Index:   i,
			Contour: b.Contour,
			Bounds:  b.Bounds,
			Notes:   []score.Note{},
		}
	}

	return result, nil
}

// mergeOverlappingBands folds bands whose vertical overlap with the band
// above exceeds tolerance pixels. Bands are visited top to bottom, so each
// merged band absorbs every later band that reaches into it.
func mergeOverlappingBands(bands []Component, tolerance int) []Component {
	if len(bands) == 0 {
		return bands
	}
	sorted := make([]Component, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Bounds.Y != sorted[j].Bounds.Y {
			return sorted[i].Bounds.Y < sorted[j].Bounds.Y
		}
		return sorted[i].Bounds.X < sorted[j].Bounds.X
	})

	out := []Component{sorted[0]}
	for _, b := range sorted[1:] {
		cur := &out[len(out)-1]
		overlap := b.Bounds.VerticalOverlap(float64(cur.Bounds.Y), float64(cur.Bounds.Bottom()))
		if overlap > float64(tolerance) {
			contour := make(score.Contour, 0, len(cur.Contour)+len(b.Contour))
			contour = append(contour, cur.Contour...)
			contour = append(contour, b.Contour...)
			cur.Contour = contour
			cur.Bounds = cur.Bounds.Union(b.Bounds)
			cur.Area += b.Area
			continue
		}
		out = append(out, b)
	}
	return out
}

// estimateLineSpacing returns the median background gap between vertically
// adjacent line runs and the median run thickness, both in pixels. A mask
// without two runs in any column yields zeros.
func estimateLineSpacing(mask *imaging.Binary) (gap, thickness float64) {
	var gaps, runs []float64

	for x := 0; x < mask.Width; x++ {
		lastEnd := -1
		y := 0
		for y < mask.Height {
			if !mask.At(x, y) {
				y++
				continue
			}
			start := y
			for y < mask.Height && mask.At(x, y) {
				y++
			}
			runs = append(runs, float64(y-start))
			if lastEnd >= 0 {
				gaps = append(gaps, float64(start-lastEnd))
			}
			lastEnd = y
		}
	}

	return median(gaps), median(runs)
}

// median returns the empirical median of values, or 0 when empty. values
// is sorted in place.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	return stat.Quantile(0.5, stat.Empirical, values, nil)
}
