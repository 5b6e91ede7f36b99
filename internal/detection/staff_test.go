package detection

import (
	"errors"
	"testing"

	"github.com/ironsheep/staffscan/internal/score"
)

func TestDetectStaffMask(t *testing.T) {
	cfg := score.DefaultConfig()
	pre, err := Preprocess(singleStaffPage(), cfg)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	mask := DetectStaffMask(pre.Binary, cfg)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"top line start", 20, 60, true},
		{"bottom line end", 379, 109, true},
		{"line through note head", 200, 84, true},
		{"note head above line", 200, 80, false},
		{"between lines", 100, 66, false},
		{"left of staff", 10, 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mask.At(tt.x, tt.y); got != tt.want {
				t.Errorf("mask(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestEstimateLineSpacing(t *testing.T) {
	pre, err := Preprocess(singleStaffPage(), score.DefaultConfig())
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	mask := DetectStaffMask(pre.Binary, score.DefaultConfig())

	gap, thickness := estimateLineSpacing(mask)
	if gap != 10 {
		t.Errorf("gap: got %v, want 10", gap)
	}
	if thickness != 2 {
		t.Errorf("thickness: got %v, want 2", thickness)
	}

	gap, thickness = estimateLineSpacing(binaryFromRows("....", "...."))
	if gap != 0 || thickness != 0 {
		t.Errorf("empty mask: got gap %v thickness %v, want zeros", gap, thickness)
	}
}

func TestDetectStaffLines_SingleStaff(t *testing.T) {
	cfg := score.DefaultConfig()
	pre, err := Preprocess(singleStaffPage(), cfg)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	result, err := DetectStaffLines(DetectStaffMask(pre.Binary, cfg), cfg)
	if err != nil {
		t.Fatalf("DetectStaffLines failed: %v", err)
	}

	if len(result.StaffLines) != 1 {
		t.Fatalf("got %d staves, want 1", len(result.StaffLines))
	}
	staff := result.StaffLines[0]
	want := score.BoundingBox{X: 20, Y: 60, Width: 360, Height: 50}
	if staff.Index != 0 || staff.Bounds != want {
		t.Errorf("staff: got index %d bounds %+v, want 0 %+v", staff.Index, staff.Bounds, want)
	}
	if staff.Contour.Bounds() != staff.Bounds {
		t.Error("staff bounds must enclose its contour exactly")
	}
	if staff.Notes == nil || len(staff.Notes) != 0 {
		t.Error("notes should be empty, not nil, before assembly")
	}
	if result.Space() != 12 {
		t.Errorf("space: got %v, want 12", result.Space())
	}
}

func TestDetectStaffLines_OrdersStavesTopToBottom(t *testing.T) {
	cfg := score.DefaultConfig()
	page := newPage(400, 500)
	drawStaff(page, 20, 379, 300, 12, 2)
	drawStaff(page, 20, 379, 60, 12, 2)
	// Too short to pass min_staff_area, but long enough for the mask
	drawStaff(page, 20, 79, 420, 12, 2)

	pre, err := Preprocess(page, cfg)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	result, err := DetectStaffLines(DetectStaffMask(pre.Binary, cfg), cfg)
	if err != nil {
		t.Fatalf("DetectStaffLines failed: %v", err)
	}

	if len(result.StaffLines) != 2 {
		t.Fatalf("got %d staves, want 2", len(result.StaffLines))
	}
	if result.Candidates != 3 || result.TooSmall != 1 {
		t.Errorf("counts: got %d candidates, %d too small; want 3, 1", result.Candidates, result.TooSmall)
	}
	for i, s := range result.StaffLines {
		if s.Index != i {
			t.Errorf("staff %d has index %d", i, s.Index)
		}
	}
	if result.StaffLines[0].Bounds.Y != 60 || result.StaffLines[1].Bounds.Y != 300 {
		t.Errorf("order: got tops %d, %d", result.StaffLines[0].Bounds.Y, result.StaffLines[1].Bounds.Y)
	}
}

func TestDetectStaffLines_NoStaff(t *testing.T) {
	cfg := score.DefaultConfig()

	_, err := DetectStaffLines(binaryFromRows("........", "........"), cfg)
	if !errors.Is(err, score.ErrNoStaffDetected) {
		t.Errorf("expected ErrNoStaffDetected, got %v", err)
	}
}

func TestMergeOverlappingBands(t *testing.T) {
	band := func(id, y, h int) Component {
		box := score.BoundingBox{X: 0, Y: y, Width: 100, Height: h}
		return Component{ID: id, Bounds: box, Contour: score.Contour{{X: 0, Y: y}, {X: 99, Y: y + h - 1}}}
	}

	tests := []struct {
		name      string
		bands     []Component
		tolerance int
		want      []score.BoundingBox
	}{
		{
			name:      "disjoint",
			bands:     []Component{band(0, 0, 40), band(1, 100, 40)},
			tolerance: 2,
			want: []score.BoundingBox{
				{X: 0, Y: 0, Width: 100, Height: 40},
				{X: 0, Y: 100, Width: 100, Height: 40},
			},
		},
		{
			name:      "overlap within tolerance kept apart",
			bands:     []Component{band(0, 0, 40), band(1, 38, 40)},
			tolerance: 2,
			want: []score.BoundingBox{
				{X: 0, Y: 0, Width: 100, Height: 40},
				{X: 0, Y: 38, Width: 100, Height: 40},
			},
		},
		{
			name:      "overlap beyond tolerance merged",
			bands:     []Component{band(1, 30, 40), band(0, 0, 40)},
			tolerance: 2,
			want:      []score.BoundingBox{{X: 0, Y: 0, Width: 100, Height: 70}},
		},
		{
			name:      "chain merged",
			bands:     []Component{band(0, 0, 40), band(1, 20, 40), band(2, 50, 40)},
			tolerance: 0,
			want:      []score.BoundingBox{{X: 0, Y: 0, Width: 100, Height: 90}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeOverlappingBands(tt.bands, tt.tolerance)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d bands, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Bounds != tt.want[i] {
					t.Errorf("band %d: got %+v, want %+v", i, got[i].Bounds, tt.want[i])
				}
				if got[i].Contour.Bounds() != got[i].Bounds {
					t.Errorf("band %d: contour does not match bounds", i)
				}
			}
		})
	}
}
