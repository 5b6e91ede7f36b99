package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	imgx "github.com/disintegration/imaging"

	"github.com/ironsheep/staffscan/internal/imaging"
	"github.com/ironsheep/staffscan/internal/score"
)

// minImageSide is the smallest width or height accepted for parsing.
const minImageSide = 8

// Preprocessed is the working representation of a page shared by every
// later stage.
type Preprocessed struct {
	// Gray is the working-size page after luminance conversion (ink dark,
	// paper light). The three color channels hold the same value; bild
	// returns RGBA. Bounds start at (0, 0).
	Gray *image.RGBA

	// Binary marks ink pixels as foreground.
	Binary *imaging.Binary

	// Scale is working size divided by source size (at most 1).
	Scale float64

	// SourceSize is the size of the input image.
	SourceSize image.Point
}

// Preprocess converts img to a binary working image.
//
// Parameters:
//   - img: Source page. Any image.Image; the origin need not be (0, 0).
//   - cfg: Pipeline configuration. Uses MaxDimension, ThresholdSigma and
//     ThresholdOffset.
//
// Returns:
//   - *Preprocessed: Working grayscale and binary images plus the scale
//     factor back to the source.
//   - error: ErrImageLoad for nil, empty or tiny images.
//
// # Algorithm
//
//  1. Grayscale conversion
//  2. Downscale so the longer side is at most MaxDimension (never upscale)
//  3. Invert so ink is bright
//  4. Adaptive threshold: a pixel is foreground when it is brighter than
//     its Gaussian-weighted local mean (sigma ThresholdSigma) by more than
//     ThresholdOffset
//
// The local threshold copes with uneven lighting in photographed pages; a
// uniformly blank page produces no foreground at all.
func Preprocess(img image.Image, cfg score.Config) (*Preprocessed, error) {
	if img == nil {
		return nil, score.Errorf(score.ErrImageLoad, "nil image")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, score.Errorf(score.ErrImageLoad, "image has zero area")
	}
	if bounds.Dx() < minImageSide || bounds.Dy() < minImageSide {
		return nil, score.Errorf(score.ErrImageLoad, "image %dx%d is smaller than %dx%d",
			bounds.Dx(), bounds.Dy(), minImageSide, minImageSide)
	}

	gray := effect.Grayscale(img)
	// Working coordinates always start at (0, 0).
	gray.Rect = image.Rect(0, 0, bounds.Dx(), bounds.Dy())

	scale := 1.0
	if longer := max(bounds.Dx(), bounds.Dy()); longer > cfg.MaxDimension {
		gray = effect.Grayscale(imgx.Fit(gray, cfg.MaxDimension, cfg.MaxDimension, imgx.Lanczos))
		scale = float64(max(gray.Bounds().Dx(), gray.Bounds().Dy())) / float64(longer)
	}

	inverted := effect.Invert(gray)
	mean := imgx.Blur(inverted, cfg.ThresholdSigma)

	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	bin := imaging.NewBinary(w, h)
	offset := cfg.ThresholdOffset
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int(inverted.Pix[inverted.PixOffset(x, y)])
			m := int(mean.Pix[mean.PixOffset(x, y)])
			if v > m+offset {
				bin.Pix[y*w+x] = 1
			}
		}
	}

	return &Preprocessed{
		Gray:       gray,
		Binary:     bin,
		Scale:      scale,
		SourceSize: image.Point{X: bounds.Dx(), Y: bounds.Dy()},
	}, nil
}
