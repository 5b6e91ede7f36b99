package detection

import (
	"github.com/ironsheep/staffscan/internal/imaging"
	"github.com/ironsheep/staffscan/internal/score"
)

// ComponentsResult contains the symbol shapes left once staff lines are
// removed.
type ComponentsResult struct {
	// Components are in raster order of their first pixel.
	Components []Component `json:"components"`

	// Raw is the number of connected shapes before size filtering.
	Raw int `json:"raw"`

	// TooSmall is the number of shapes below MinNoteArea.
	TooSmall int `json:"too_small"`
}

// DetectComponents extracts symbol shapes from a page.
//
// Parameters:
//   - bin: Binary page from Preprocess.
//   - mask: Staff-line mask from DetectStaffMask.
//   - cfg: Uses NoteDilation and MinNoteArea.
//
// Returns:
//   - *ComponentsResult: Shapes with contour, bounds and pixel area.
//
// # Algorithm
//
//  1. Remove staff-line pixels (bin AND NOT mask) so symbols sitting on a
//     line become isolated shapes
//  2. Dilate with a square of radius NoteDilation, reconnecting fragments
//     of one symbol that line removal split (a note head cut by a line,
//     a stem detached from its head)
//  3. Trace 8-connected shapes; drop those with fewer than MinNoteArea
//     pixels
//
// Dilation is symmetric, so a shape's center is unchanged while its bounds
// grow by NoteDilation on each side.
func DetectComponents(bin, mask *imaging.Binary, cfg score.Config) *ComponentsResult {
	cleaned := bin.Subtract(mask)
	dilated := imaging.DilateRect(cleaned, cfg.NoteDilation, cfg.NoteDilation)

	components, tooSmall := labelComponents(dilated, cfg.MinNoteArea)
	return &ComponentsResult{
		Components: components,
		Raw:        len(components) + tooSmall,
		TooSmall:   tooSmall,
	}
}
