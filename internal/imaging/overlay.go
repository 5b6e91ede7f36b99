package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/staffscan/internal/score"
)

// OverlayOptions selects which parts of a parsed score are drawn.
type OverlayOptions struct {
	StaffBounds   bool `json:"staff_bounds"`
	StaffContours bool `json:"staff_contours"`
	NoteBounds    bool `json:"note_bounds"`
	NoteContours  bool `json:"note_contours"`
	NoteIndices   bool `json:"note_indices"`

	// NoteColorHex overrides the note outline color ("#RRGGBB" or
	// "#RRGGBBAA"). Empty or invalid values fall back to the staff color.
	NoteColorHex string `json:"note_color,omitempty"`
}

// DefaultOverlayOptions draws staff bands, note boxes and note indices.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		StaffBounds: true,
		NoteBounds:  true,
		NoteIndices: true,
	}
}

// OverlayResult contains the annotated image
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	StaffLines  int    `json:"staff_lines"`
	Notes       int    `json:"notes"`
}

// RenderOverlay draws the detected structure of s on top of img and returns
// it as a base64 PNG.
//
// Detection coordinates live in the score's working space, so img is first
// resampled to s.Width × s.Height when its size differs (pass either the
// source page or the working image). Each staff system gets its own hue;
// its notes are drawn in the same hue unless NoteColorHex is set.
func RenderOverlay(img image.Image, s *score.Score, opts OverlayOptions) (*OverlayResult, error) {
	canvas := renderOverlay(img, s, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       canvas.Bounds().Dx(),
		Height:      canvas.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		StaffLines:  len(s.StaffLines),
		Notes:       s.NoteCount(),
	}, nil
}

func renderOverlay(img image.Image, s *score.Score, opts OverlayOptions) *image.RGBA {
	src := ToWorking(img, s)
	bounds := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Src)

	noteColor, err := parseHexColor(opts.NoteColorHex)
	customNotes := err == nil

	palette := staffPalette(len(s.StaffLines))
	for i := range s.StaffLines {
		staff := &s.StaffLines[i]
		c := palette[i]

		if opts.StaffBounds {
			drawRect(canvas, staff.Bounds, c, 2)
		}
		if opts.StaffContours {
			drawContour(canvas, staff.Contour, c)
		}

		nc := c
		if customNotes {
			nc = noteColor
		}
		for j := range staff.Notes {
			note := &staff.Notes[j]
			if opts.NoteBounds {
				drawRect(canvas, note.Bounds, nc, 1)
			}
			if opts.NoteContours {
				drawContour(canvas, note.Contour, nc)
			}
			if opts.NoteIndices {
				drawLabel(canvas, note.Bounds.X, note.Bounds.Y-2, strconv.Itoa(note.Index), nc)
			}
		}

		if staff.Key != nil && opts.StaffBounds {
			drawRect(canvas, staff.Key.Bounds, c, 1)
		}
	}

	return canvas
}

// staffPalette returns n evenly spaced, fully saturated hues.
func staffPalette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		h := 360 * float64(i) / float64(max(n, 1))
		r, g, b := colorful.Hsv(h, 0.85, 0.9).Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// drawRect outlines box with the given stroke width drawn inward.
func drawRect(img *image.RGBA, box score.BoundingBox, c color.RGBA, stroke int) {
	if box.Empty() {
		return
	}
	for s := 0; s < stroke; s++ {
		x0, y0 := box.X+s, box.Y+s
		x1, y1 := box.Right()-1-s, box.Bottom()-1-s
		if x0 > x1 || y0 > y1 {
			return
		}
		for x := x0; x <= x1; x++ {
			setClipped(img, x, y0, c)
			setClipped(img, x, y1, c)
		}
		for y := y0; y <= y1; y++ {
			setClipped(img, x0, y, c)
			setClipped(img, x1, y, c)
		}
	}
}

func drawContour(img *image.RGBA, contour score.Contour, c color.RGBA) {
	for _, p := range contour {
		setClipped(img, p.X, p.Y, c)
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLabel writes text with its baseline at (x, y) on a dark backing box.
// Labels that would leave the top edge are moved below the anchor.
func drawLabel(img *image.RGBA, x, y int, text string, fg color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	if y-ascent < 0 {
		y = ascent + 1
	}

	bg := image.NewUniform(color.RGBA{0, 0, 0, 160})
	backing := image.Rect(x-1, y-ascent-1, x+width+1, y+descent)
	draw.Draw(img, backing.Intersect(img.Bounds()), bg, image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
