package imaging

// Binary is a single-channel two-level image. Pixels are stored row-major,
// one byte each (1 = foreground/ink, 0 = background). The origin is always
// (0, 0).
//
// Binary values are not safe for concurrent mutation; the pipeline treats a
// Binary as read-only once it has been produced and derives new ones instead.
type Binary struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBinary allocates an all-background image.
func NewBinary(width, height int) *Binary {
	return &Binary{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At reports whether (x, y) is foreground. Out-of-range coordinates are
// background.
func (b *Binary) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x] != 0
}

// Set marks (x, y) as foreground or background. Out-of-range coordinates
// are ignored.
func (b *Binary) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	if on {
		b.Pix[y*b.Width+x] = 1
	} else {
		b.Pix[y*b.Width+x] = 0
	}
}

// Count returns the number of foreground pixels.
func (b *Binary) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Subtract returns b AND NOT mask. Both images must have the same size.
func (b *Binary) Subtract(mask *Binary) *Binary {
	out := NewBinary(b.Width, b.Height)
	for i, v := range b.Pix {
		if v != 0 && mask.Pix[i] == 0 {
			out.Pix[i] = 1
		}
	}
	return out
}
