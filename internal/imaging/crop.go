package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/staffscan/internal/score"
)

// DefaultElementSize is the square edge used for classifier-ready element
// patches.
const DefaultElementSize = 128

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropElement extracts the region box from img and encodes it as PNG.
//
// box is interpreted in img's coordinate space relative to img.Bounds().Min
// and is clipped to the image. When size is positive the patch is resampled
// to a size×size square (aspect ratio is not preserved, matching the fixed
// input shape of a symbol classifier); otherwise the crop keeps its native
// dimensions.
//
// Returns an error when the clipped region is empty.
func CropElement(img image.Image, box score.BoundingBox, size int) (*CropResult, error) {
	patch, err := cropElement(img, box, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, patch); err != nil {
		return nil, fmt.Errorf("failed to encode element patch: %w", err)
	}

	return &CropResult{
		Width:       patch.Bounds().Dx(),
		Height:      patch.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func cropElement(img image.Image, box score.BoundingBox, size int) (image.Image, error) {
	bounds := img.Bounds()
	rect := image.Rect(box.X, box.Y, box.Right(), box.Bottom()).
		Add(bounds.Min).
		Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("crop region (%d,%d %dx%d) outside image bounds %dx%d",
			box.X, box.Y, box.Width, box.Height, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(img, rect)
	if size > 0 {
		cropped = imaging.Resize(cropped, size, size, imaging.Lanczos)
	}
	return cropped, nil
}

// ToWorking resamples img to the working size of s, the space all detection
// coordinates are expressed in. img is returned unchanged when it already
// has that size.
func ToWorking(img image.Image, s *score.Score) image.Image {
	b := img.Bounds()
	if s.Width <= 0 || s.Height <= 0 || (b.Dx() == s.Width && b.Dy() == s.Height) {
		return img
	}
	return imaging.Resize(img, s.Width, s.Height, imaging.Lanczos)
}
