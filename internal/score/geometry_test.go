package score

import (
	"math"
	"testing"
)

func TestContourBounds(t *testing.T) {
	c := Contour{{X: 5, Y: 7}, {X: 9, Y: 7}, {X: 9, Y: 12}, {X: 5, Y: 12}}
	got := c.Bounds()
	want := BoundingBox{X: 5, Y: 7, Width: 5, Height: 6}
	if got != want {
		t.Errorf("Bounds: got %+v, want %+v", got, want)
	}

	single := Contour{{X: 3, Y: 4}}
	if got := single.Bounds(); got != (BoundingBox{X: 3, Y: 4, Width: 1, Height: 1}) {
		t.Errorf("single point bounds: got %+v", got)
	}

	if got := (Contour{}).Bounds(); !got.Empty() {
		t.Errorf("empty contour should give empty box, got %+v", got)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
		want Position
	}{
		{"odd size", BoundingBox{X: 192, Y: 76, Width: 17, Height: 17}, Position{X: 200, Y: 84}},
		{"even size", BoundingBox{X: 0, Y: 0, Width: 4, Height: 2}, Position{X: 1.5, Y: 0.5}},
		{"single pixel", BoundingBox{X: 10, Y: 20, Width: 1, Height: 1}, Position{X: 10, Y: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Center(); got != tt.want {
				t.Errorf("Center: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundingBoxUnionIntersect(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}
	b := BoundingBox{X: 4, Y: 5, Width: 10, Height: 10}

	if got := a.Union(b); got != (BoundingBox{X: 0, Y: 0, Width: 14, Height: 15}) {
		t.Errorf("Union: got %+v", got)
	}
	if got := a.Intersect(b); got != (BoundingBox{X: 4, Y: 5, Width: 6, Height: 5}) {
		t.Errorf("Intersect: got %+v", got)
	}

	far := BoundingBox{X: 50, Y: 50, Width: 3, Height: 3}
	if got := a.Intersect(far); !got.Empty() {
		t.Errorf("disjoint Intersect should be empty, got %+v", got)
	}

	// Touching edges share no pixel.
	touching := BoundingBox{X: 10, Y: 0, Width: 5, Height: 10}
	if got := a.Intersect(touching); !got.Empty() {
		t.Errorf("edge-adjacent Intersect should be empty, got %+v", got)
	}

	if got := (BoundingBox{}).Union(b); got != b {
		t.Errorf("Union with empty: got %+v, want %+v", got, b)
	}
}

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want float64
	}{
		{"sixty percent", BoundingBox{0, 0, 10, 10}, BoundingBox{4, 0, 10, 10}, 0.6},
		{"contained", BoundingBox{0, 0, 20, 20}, BoundingBox{5, 5, 4, 4}, 1.0},
		{"disjoint", BoundingBox{0, 0, 5, 5}, BoundingBox{10, 10, 5, 5}, 0},
		{"degenerate", BoundingBox{0, 0, 0, 5}, BoundingBox{0, 0, 5, 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.OverlapRatio(tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OverlapRatio: got %v, want %v", got, tt.want)
			}
			if sym := tt.b.OverlapRatio(tt.a); math.Abs(sym-got) > 1e-9 {
				t.Errorf("OverlapRatio not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestVerticalOverlap(t *testing.T) {
	box := BoundingBox{X: 0, Y: 10, Width: 5, Height: 10}

	if got := box.VerticalOverlap(15, 40); got != 5 {
		t.Errorf("partial overlap: got %v, want 5", got)
	}
	if got := box.VerticalOverlap(30, 40); got != -10 {
		t.Errorf("gap: got %v, want -10", got)
	}
}

func TestRelativePosition(t *testing.T) {
	staff := BoundingBox{X: 20, Y: 60, Width: 360, Height: 48}
	note := BoundingBox{X: 95, Y: 78, Width: 11, Height: 13}

	got := RelativePosition(note, staff)
	// space = 12; center = (100, 84)
	want := Position{X: 80.0 / 12, Y: 24.0 / 12}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("RelativePosition: got %+v, want %+v", got, want)
	}

	// Recomputing from the same bounds must not drift.
	if again := RelativePosition(note, staff); again != got {
		t.Errorf("RelativePosition not stable: %+v vs %+v", got, again)
	}
}

func TestStaffSpace_Floor(t *testing.T) {
	if got := StaffSpace(BoundingBox{Height: 2}); got != 1 {
		t.Errorf("StaffSpace floor: got %v, want 1", got)
	}
	if got := StaffSpace(BoundingBox{Height: 50}); got != 12.5 {
		t.Errorf("StaffSpace: got %v, want 12.5", got)
	}
}
