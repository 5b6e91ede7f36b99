package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/staffscan/internal/score"
)

// decodeResult decodes a CropResult back to an image.
func decodeResult(t *testing.T, r *CropResult) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func TestCropElement_NativeSize(t *testing.T) {
	img := createInMemoryImage(100, 80, color.White)
	// Mark the crop origin so we can check the region is the right one
	img.Set(10, 20, color.Black)

	result, err := CropElement(img, score.BoundingBox{X: 10, Y: 20, Width: 30, Height: 15}, 0)
	if err != nil {
		t.Fatalf("CropElement failed: %v", err)
	}

	if result.Width != 30 || result.Height != 15 {
		t.Errorf("dimensions: got %dx%d, want 30x15", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	patch := decodeResult(t, result)
	r, _, _, _ := patch.At(0, 0).RGBA()
	if r != 0 {
		t.Errorf("patch origin should be the black marker, got r=%d", r)
	}
	r, _, _, _ = patch.At(1, 1).RGBA()
	if r == 0 {
		t.Error("pixel next to marker should be white")
	}
}

func TestCropElement_Resized(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		box  score.BoundingBox
		size int
	}{
		{"tall note", score.BoundingBox{X: 5, Y: 0, Width: 12, Height: 60}, DefaultElementSize},
		{"wide key", score.BoundingBox{X: 0, Y: 10, Width: 90, Height: 20}, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CropElement(img, tt.box, tt.size)
			if err != nil {
				t.Fatalf("CropElement failed: %v", err)
			}
			if result.Width != tt.size || result.Height != tt.size {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.size, tt.size)
			}
		})
	}
}

func TestCropElement_ClipsToImage(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)

	result, err := CropElement(img, score.BoundingBox{X: 40, Y: -5, Width: 20, Height: 20}, 0)
	if err != nil {
		t.Fatalf("CropElement failed: %v", err)
	}
	if result.Width != 10 || result.Height != 15 {
		t.Errorf("clipped dimensions: got %dx%d, want 10x15", result.Width, result.Height)
	}
}

func TestCropElement_NonZeroOrigin(t *testing.T) {
	base := createInMemoryImage(60, 60, color.White)
	base.Set(25, 25, color.Black)
	sub := base.SubImage(image.Rect(20, 20, 60, 60))

	result, err := CropElement(sub, score.BoundingBox{X: 5, Y: 5, Width: 4, Height: 4}, 0)
	if err != nil {
		t.Fatalf("CropElement failed: %v", err)
	}
	patch := decodeResult(t, result)
	r, _, _, _ := patch.At(0, 0).RGBA()
	if r != 0 {
		t.Error("box should be relative to the image origin")
	}
}

func TestCropElement_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name string
		box  score.BoundingBox
	}{
		{"right of image", score.BoundingBox{X: 100, Y: 0, Width: 10, Height: 10}},
		{"above image", score.BoundingBox{X: 0, Y: -20, Width: 10, Height: 10}},
		{"empty box", score.BoundingBox{X: 10, Y: 10, Width: 0, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropElement(img, tt.box, 0); err == nil {
				t.Error("CropElement should fail for a region outside the image")
			}
		})
	}
}

func TestToWorking(t *testing.T) {
	src := createInMemoryImage(400, 200, color.White)

	tests := []struct {
		name         string
		score        *score.Score
		wantW, wantH int
		same         bool
	}{
		{"already working size", &score.Score{Width: 400, Height: 200}, 400, 200, true},
		{"downscaled", &score.Score{Width: 200, Height: 100}, 200, 100, false},
		{"unknown size", &score.Score{}, 400, 200, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToWorking(src, tt.score)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d",
					got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
			if tt.same && got != image.Image(src) {
				t.Error("expected the input image to be returned unchanged")
			}
		})
	}
}
