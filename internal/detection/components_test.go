package detection

import (
	"testing"

	"github.com/ironsheep/staffscan/internal/score"
)

func TestTraceBoundary_Square(t *testing.T) {
	b := binaryFromRows(
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	)

	comps, skipped := labelComponents(b, 1)
	if skipped != 0 || len(comps) != 1 {
		t.Fatalf("got %d components, %d skipped; want 1, 0", len(comps), skipped)
	}

	want := score.Contour{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1},
		{X: 3, Y: 2}, {X: 3, Y: 3}, {X: 2, Y: 3},
		{X: 1, Y: 3}, {X: 1, Y: 2},
	}
	got := comps[0].Contour
	if len(got) != len(want) {
		t.Fatalf("contour length: got %d (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("contour[%d]: got %v, want %v", i, got[i], want[i])
		}
	}

	if comps[0].Bounds != (score.BoundingBox{X: 1, Y: 1, Width: 3, Height: 3}) {
		t.Errorf("bounds: got %+v", comps[0].Bounds)
	}
	if comps[0].Area != 9 {
		t.Errorf("area: got %d, want 9", comps[0].Area)
	}
}

func TestTraceBoundary_SinglePixel(t *testing.T) {
	b := binaryFromRows(
		"...",
		".#.",
		"...",
	)

	comps, _ := labelComponents(b, 1)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	if len(comps[0].Contour) != 1 || comps[0].Contour[0] != (score.Point{X: 1, Y: 1}) {
		t.Errorf("contour: got %v", comps[0].Contour)
	}
	if comps[0].Bounds != (score.BoundingBox{X: 1, Y: 1, Width: 1, Height: 1}) {
		t.Errorf("bounds: got %+v", comps[0].Bounds)
	}
}

func TestTraceBoundary_ThinLine(t *testing.T) {
	b := binaryFromRows(
		"......",
		".####.",
		"......",
	)

	comps, _ := labelComponents(b, 1)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	if comps[0].Bounds != (score.BoundingBox{X: 1, Y: 1, Width: 4, Height: 1}) {
		t.Errorf("bounds: got %+v", comps[0].Bounds)
	}
	// Walking out and back visits interior points twice, never loops.
	if n := len(comps[0].Contour); n < 4 || n > 8 {
		t.Errorf("contour length %d out of expected range", n)
	}
}

func TestTraceBoundary_RingBoundsFromOuterEdge(t *testing.T) {
	b := binaryFromRows(
		".......",
		".#####.",
		".#...#.",
		".#...#.",
		".#####.",
		".......",
	)

	comps, _ := labelComponents(b, 1)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	if comps[0].Bounds != (score.BoundingBox{X: 1, Y: 1, Width: 5, Height: 4}) {
		t.Errorf("bounds: got %+v", comps[0].Bounds)
	}
	if comps[0].Contour.Bounds() != comps[0].Bounds {
		t.Error("bounds must be the minimal box enclosing the contour")
	}
}

func TestLabelComponents_Connectivity(t *testing.T) {
	tests := []struct {
		name      string
		rows      []string
		minArea   int
		wantCount int
		wantSkip  int
	}{
		{
			name:      "diagonal pixels are connected",
			rows:      []string{"#..", ".#.", "..#"},
			minArea:   1,
			wantCount: 1,
		},
		{
			name:      "separated shapes",
			rows:      []string{"##..#", "##..#", "....#"},
			minArea:   1,
			wantCount: 2,
		},
		{
			name:      "small shapes skipped",
			rows:      []string{"##..#", "##...", "....."},
			minArea:   2,
			wantCount: 1,
			wantSkip:  1,
		},
		{
			name:      "empty image",
			rows:      []string{"...", "..."},
			minArea:   1,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps, skipped := labelComponents(binaryFromRows(tt.rows...), tt.minArea)
			if len(comps) != tt.wantCount {
				t.Errorf("count: got %d, want %d", len(comps), tt.wantCount)
			}
			if skipped != tt.wantSkip {
				t.Errorf("skipped: got %d, want %d", skipped, tt.wantSkip)
			}
		})
	}
}

func TestLabelComponents_RasterOrderIDs(t *testing.T) {
	b := binaryFromRows(
		"....#",
		"##...",
		"##...",
	)

	comps, _ := labelComponents(b, 1)
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
	if comps[0].ID != 0 || comps[0].Bounds.X != 4 {
		t.Errorf("first component should be the top-right pixel, got %+v", comps[0])
	}
	if comps[1].ID != 1 || comps[1].Area != 4 {
		t.Errorf("second component should be the 2x2 block, got %+v", comps[1])
	}
}
