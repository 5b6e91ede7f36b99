package detection

import (
	"github.com/ironsheep/staffscan/internal/imaging"
	"github.com/ironsheep/staffscan/internal/score"
)

// Component is one connected foreground shape, or after merging, a group of
// shapes treated as one symbol candidate.
type Component struct {
	// ID is the raster order in which the shape was found. A merged group
	// takes the smallest ID of its members.
	ID int `json:"id"`

	// Contour is the outer boundary traced clockwise from the shape's first
	// raster pixel. Merged groups concatenate member contours in ID order.
	Contour score.Contour `json:"-"`

	// Bounds is the minimal box enclosing Contour.
	Bounds score.BoundingBox `json:"bounds"`

	// Area is the number of foreground pixels (summed over merged members).
	Area int `json:"area"`
}

// mooreOffsets lists the 8 neighbours clockwise starting west.
var mooreOffsets = [8]score.Point{
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
}

// labelComponents finds every 8-connected region of b in raster order and
// traces its outer boundary. Regions with fewer than minArea pixels are
// skipped and counted in the second return value.
func labelComponents(b *imaging.Binary, minArea int) ([]Component, int) {
	visited := make([]bool, len(b.Pix))
	components := make([]Component, 0)
	skipped := 0
	id := 0

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			i := y*b.Width + x
			if b.Pix[i] == 0 || visited[i] {
				continue
			}
			area := floodFill(b, visited, x, y)
			if area < minArea {
				skipped++
				continue
			}
			contour := traceBoundary(b, score.Point{X: x, Y: y}, area)
			components = append(components, Component{
				ID:      id,
				Contour: contour,
				Bounds:  contour.Bounds(),
				Area:    area,
			})
			id++
		}
	}

	return components, skipped
}

// floodFill marks the region containing (startX, startY) as visited and
// returns its pixel count.
func floodFill(b *imaging.Binary, visited []bool, startX, startY int) int {
	stack := []score.Point{{X: startX, Y: startY}}
	area := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !b.At(p.X, p.Y) {
			continue
		}
		i := p.Y*b.Width + p.X
		if visited[i] {
			continue
		}

		visited[i] = true
		area++

		// 8-connected neighbors
		for _, d := range mooreOffsets {
			stack = append(stack, score.Point{X: p.X + d.X, Y: p.Y + d.Y})
		}
	}

	return area
}

// traceBoundary follows the outer boundary of the region containing start
// with Moore-neighbour tracing. start must be the region's first pixel in
// raster order, so its west neighbour is background.
//
// Tracing stops when it re-enters start heading to the second boundary
// point, which handles regions whose boundary passes through start more
// than once. An isolated pixel yields a single-point contour.
func traceBoundary(b *imaging.Binary, start score.Point, area int) score.Contour {
	contour := score.Contour{start}
	cur := start
	back := 0 // direction from cur to the last background pixel checked
	limit := 4*area + 8

	for step := 0; step < limit; step++ {
		next, nextBack, ok := mooreStep(b, cur, back)
		if !ok {
			break
		}
		if cur == start && len(contour) > 1 && next == contour[1] {
			break
		}
		contour = append(contour, next)
		cur, back = next, nextBack
	}

	if n := len(contour); n > 1 && contour[n-1] == start {
		contour = contour[:n-1]
	}
	return contour
}

// mooreStep scans the neighbours of cur clockwise, starting just after the
// backtrack direction, and returns the first foreground neighbour together
// with the backtrack direction to use from it.
func mooreStep(b *imaging.Binary, cur score.Point, back int) (score.Point, int, bool) {
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		n := score.Point{X: cur.X + mooreOffsets[d].X, Y: cur.Y + mooreOffsets[d].Y}
		if !b.At(n.X, n.Y) {
			continue
		}
		prev := mooreOffsets[(d+7)%8]
		rel := score.Point{X: cur.X + prev.X - n.X, Y: cur.Y + prev.Y - n.Y}
		return n, directionOf(rel), true
	}
	return cur, back, false
}

// directionOf returns the index in mooreOffsets of a unit offset.
func directionOf(p score.Point) int {
	for i, d := range mooreOffsets {
		if d == p {
			return i
		}
	}
	return 0
}
