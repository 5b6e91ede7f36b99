package score

import "math"

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Position is a sub-pixel coordinate, used for centers and normalized offsets.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is an ordered sequence of boundary points of one connected shape.
// Merged symbols carry the concatenated points of their fragments.
type Contour []Point

// Bounds returns the minimal axis-aligned box enclosing the contour.
// An empty contour yields the zero box.
func (c Contour) Bounds() BoundingBox {
	if len(c) == 0 {
		return BoundingBox{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// BoundingBox is an axis-aligned rectangle in pixel coordinates.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (b BoundingBox) Right() int { return b.X + b.Width }

// Bottom returns the exclusive bottom edge.
func (b BoundingBox) Bottom() int { return b.Y + b.Height }

// Area returns Width × Height, or 0 for degenerate boxes.
func (b BoundingBox) Area() int {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Empty reports whether the box covers no pixel.
func (b BoundingBox) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Center returns the center of the covered pixels.
func (b BoundingBox) Center() Position {
	return Position{
		X: float64(b.X) + float64(b.Width-1)/2,
		Y: float64(b.Y) + float64(b.Height-1)/2,
	}
}

// Union returns the smallest box containing both boxes. An empty operand is
// ignored.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x, y := min(b.X, o.X), min(b.Y, o.Y)
	return BoundingBox{
		X:      x,
		Y:      y,
		Width:  max(b.Right(), o.Right()) - x,
		Height: max(b.Bottom(), o.Bottom()) - y,
	}
}

// Intersect returns the overlapping region, or the zero box.
func (b BoundingBox) Intersect(o BoundingBox) BoundingBox {
	x, y := max(b.X, o.X), max(b.Y, o.Y)
	r, btm := min(b.Right(), o.Right()), min(b.Bottom(), o.Bottom())
	if r <= x || btm <= y {
		return BoundingBox{}
	}
	return BoundingBox{X: x, Y: y, Width: r - x, Height: btm - y}
}

// OverlapRatio returns the intersection area divided by the area of the
// smaller box. Degenerate boxes yield 0.
func (b BoundingBox) OverlapRatio(o BoundingBox) float64 {
	smaller := min(b.Area(), o.Area())
	if smaller == 0 {
		return 0
	}
	return float64(b.Intersect(o).Area()) / float64(smaller)
}

// VerticalOverlap returns how many rows the box shares with the half-open
// range [top, bottom). Negative values are the gap between them.
func (b BoundingBox) VerticalOverlap(top, bottom float64) float64 {
	return math.Min(float64(b.Bottom()), bottom) - math.Max(float64(b.Y), top)
}

// RelativePosition normalizes the center of box against a staff band: the
// offset from the band's top-left corner divided by the band's staff space.
func RelativePosition(box, staff BoundingBox) Position {
	space := StaffSpace(staff)
	c := box.Center()
	return Position{
		X: (c.X - float64(staff.X)) / space,
		Y: (c.Y - float64(staff.Y)) / space,
	}
}

// StaffSpace returns the inter-line spacing of a five-line staff band:
// the band height divided by 4, never below one pixel.
func StaffSpace(staff BoundingBox) float64 {
	return math.Max(float64(staff.Height)/4, 1)
}
