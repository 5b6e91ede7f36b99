package imaging

// Binary morphology with rectangular structuring elements.
//
// A rectangle of half-widths (rx, ry) covers (2*rx+1) × (2*ry+1) pixels.
// Rectangles are separable, so each operation runs one horizontal and one
// vertical pass with sliding-window counts: O(width × height) regardless of
// the element size.

// DilateRect sets every pixel whose (rx, ry) neighborhood contains
// foreground.
func DilateRect(b *Binary, rx, ry int) *Binary {
	return vertical(horizontal(b, rx, false), ry, false)
}

// ErodeRect keeps pixels whose entire (rx, ry) neighborhood is foreground.
// Pixels beyond the image border count as foreground, so shapes touching the
// border are not eaten away from outside.
func ErodeRect(b *Binary, rx, ry int) *Binary {
	return vertical(horizontal(b, rx, true), ry, true)
}

// CloseRect is dilation followed by erosion: it fills gaps narrower than the
// rectangle without growing the outer extent of shapes.
func CloseRect(b *Binary, rx, ry int) *Binary {
	return ErodeRect(DilateRect(b, rx, ry), rx, ry)
}

// HorizontalRuns keeps only pixels that belong to a horizontal run of at
// least length foreground pixels.
func HorizontalRuns(b *Binary, length int) *Binary {
	out := NewBinary(b.Width, b.Height)
	if length <= 1 {
		copy(out.Pix, b.Pix)
		return out
	}
	for y := 0; y < b.Height; y++ {
		row := b.Pix[y*b.Width : (y+1)*b.Width]
		dst := out.Pix[y*b.Width : (y+1)*b.Width]
		x := 0
		for x < b.Width {
			if row[x] == 0 {
				x++
				continue
			}
			start := x
			for x < b.Width && row[x] != 0 {
				x++
			}
			if x-start >= length {
				for i := start; i < x; i++ {
					dst[i] = 1
				}
			}
		}
	}
	return out
}

// horizontal applies a 1-D pass along rows. For dilation a pixel is set when
// any pixel in [x-r, x+r] is set; for erosion when all are.
func horizontal(b *Binary, r int, erode bool) *Binary {
	out := NewBinary(b.Width, b.Height)
	if r <= 0 {
		copy(out.Pix, b.Pix)
		return out
	}
	w := b.Width
	prefix := make([]int, w+1)
	for y := 0; y < b.Height; y++ {
		row := b.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		dst := out.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			lo, hi := max(x-r, 0), min(x+r, w-1)
			n := prefix[hi+1] - prefix[lo]
			if erode {
				if n == hi-lo+1 {
					dst[x] = 1
				}
			} else if n > 0 {
				dst[x] = 1
			}
		}
	}
	return out
}

// vertical is the column-wise counterpart of horizontal.
func vertical(b *Binary, r int, erode bool) *Binary {
	out := NewBinary(b.Width, b.Height)
	if r <= 0 {
		copy(out.Pix, b.Pix)
		return out
	}
	w, h := b.Width, b.Height
	prefix := make([]int, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(b.Pix[y*w+x])
		}
		for y := 0; y < h; y++ {
			lo, hi := max(y-r, 0), min(y+r, h-1)
			n := prefix[hi+1] - prefix[lo]
			if erode {
				if n == hi-lo+1 {
					out.Pix[y*w+x] = 1
				}
			} else if n > 0 {
				out.Pix[y*w+x] = 1
			}
		}
	}
	return out
}
