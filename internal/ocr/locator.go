package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"unicode"

	"github.com/anthonynsimon/bild/segment"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/staffscan/internal/score"
)

// Default settings for NewLocator.
const (
	DefaultLanguage      = "eng"
	DefaultMinConfidence = 0.6
	DefaultMinLetters    = 2
	binarizeLevel        = 128
)

// Word is a recognized word and where it was found.
type Word struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the box around the word in the input image.
	Bounds score.BoundingBox `json:"bounds"`
}

// Locator finds words on score pages so that titles, lyrics and
// performance directions can be told apart from musical symbols.
//
// A Locator holds only settings; every call opens its own Tesseract client,
// so one Locator may be shared between goroutines.
type Locator struct {
	// Language is the Tesseract language code (e.g., "eng", "deu").
	Language string

	// MinConfidence drops words recognized with lower confidence (0.0 to 1.0).
	MinConfidence float64

	// MinLetters drops words with fewer letters. Tesseract readily reads an
	// isolated note head as "o" or a sharp as "#"; real text has more.
	MinLetters int

	// TessdataPrefix overrides the directory holding *.traineddata files.
	// Empty uses the system installation.
	TessdataPrefix string
}

// NewLocator returns a Locator with default thresholds.
func NewLocator(language string) *Locator {
	if language == "" {
		language = DefaultLanguage
	}
	return &Locator{
		Language:      language,
		MinConfidence: DefaultMinConfidence,
		MinLetters:    DefaultMinLetters,
	}
}

// LocateWords returns the boxes of words found on img, in img's coordinate
// space. It satisfies detection.TextLocator.
func (l *Locator) LocateWords(ctx context.Context, img image.Image) ([]score.BoundingBox, error) {
	words, err := l.Words(ctx, img)
	if err != nil {
		return nil, err
	}
	boxes := make([]score.BoundingBox, len(words))
	for i, w := range words {
		boxes[i] = w.Bounds
	}
	return boxes, nil
}

// Words runs word-level OCR on img.
//
// Parameters:
//   - ctx: Checked before the (uninterruptible) Tesseract call.
//   - img: Page or page region. Any origin.
//
// Returns:
//   - []Word: Words passing MinConfidence and MinLetters, in Tesseract's
//     reading order. Bounds are translated to img's coordinates.
//   - error: Non-nil if the image cannot be encoded or Tesseract fails.
//
// # Preparation
//
// The page is binarized at mid-gray before recognition. Staff pages are
// high-contrast already, and a hard threshold keeps anti-aliased staff
// lines from being read as underscores.
func (l *Locator) Words(ctx context.Context, img image.Image) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, segment.Threshold(img, binarizeLevel)); err != nil {
		return nil, fmt.Errorf("failed to encode page for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if l.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(l.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(l.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract word detection failed: %w", err)
	}

	origin := img.Bounds().Min
	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < l.MinConfidence || countLetters(box.Word) < l.MinLetters {
			continue
		}
		r := box.Box.Add(origin)
		words = append(words, Word{
			Text:       box.Word,
			Confidence: confidence,
			Bounds:     score.BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()},
		})
	}

	return words, nil
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
