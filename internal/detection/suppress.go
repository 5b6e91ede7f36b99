package detection

import (
	"context"
	"image"

	"github.com/ironsheep/staffscan/internal/score"
)

// textCoverage is the share of a candidate's box that one word box must
// cover for the candidate to be treated as text.
const textCoverage = 0.5

// TextLocator finds words on a page. Returned boxes are in the coordinate
// space of the image passed in.
type TextLocator interface {
	LocateWords(ctx context.Context, img image.Image) ([]score.BoundingBox, error)
}

// SuppressText drops candidates that are mostly covered by a single word box
// (titles, lyrics, tempo and dynamics markings) and returns the survivors in
// their original order along with the number dropped.
func SuppressText(components []Component, words []score.BoundingBox) ([]Component, int) {
	if len(words) == 0 {
		return components, 0
	}

	kept := make([]Component, 0, len(components))
	dropped := 0
	for _, c := range components {
		if coveredByWord(c.Bounds, words) {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

func coveredByWord(box score.BoundingBox, words []score.BoundingBox) bool {
	area := box.Area()
	if area == 0 {
		return false
	}
	for _, w := range words {
		if float64(box.Intersect(w).Area()) >= textCoverage*float64(area) {
			return true
		}
	}
	return false
}
