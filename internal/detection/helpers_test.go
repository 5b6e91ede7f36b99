package detection

import (
	"image"
	"image/color"

	"github.com/ironsheep/staffscan/internal/imaging"
)

// newPage creates a white page
func newPage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// drawStaff draws five black lines of the given thickness, spacing pixels
// apart starting at top, spanning x1..x2 inclusive.
func drawStaff(img *image.Gray, x1, x2, top, spacing, thickness int) {
	for line := 0; line < 5; line++ {
		y0 := top + line*spacing
		for y := y0; y < y0+thickness; y++ {
			for x := x1; x <= x2; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
}

// fillCircle draws a filled black disc.
func fillCircle(img *image.Gray, cx, cy, radius int) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
}

// fillRect draws a filled black rectangle covering [x, x+w) × [y, y+h).
func fillRect(img *image.Gray, x, y, w, h int) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			img.SetGray(xx, yy, color.Gray{Y: 0})
		}
	}
}

// singleStaffPage is a 400x400 page with one staff (lines at y=60..109,
// x=20..379) and one note head of radius 6 centered at (200, 84).
func singleStaffPage() *image.Gray {
	img := newPage(400, 400)
	drawStaff(img, 20, 379, 60, 12, 2)
	fillCircle(img, 200, 84, 6)
	return img
}

// binaryFromRows builds a Binary from strings where '#' is foreground.
func binaryFromRows(rows ...string) *imaging.Binary {
	b := imaging.NewBinary(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			b.Set(x, y, ch == '#')
		}
	}
	return b
}
