package detection

import (
	"math"
	"sort"

	"github.com/ironsheep/staffscan/internal/score"
)

// AssemblyResult contains the final staff structure.
type AssemblyResult struct {
	// StaffLines are copies of the input staves with Notes populated.
	StaffLines []score.StaffLine `json:"staff_lines"`

	// OffStaff is the number of candidates dropped as too far from every
	// staff.
	OffStaff int `json:"off_staff"`
}

// AssembleNotes assigns symbol candidates to staves and builds Note records.
//
// Parameters:
//   - staves: Ordered staff systems from DetectStaffLines. Not modified.
//   - components: Merged candidates from MergeComponents.
//   - cfg: Uses StaffMargin and MaxStaffDistance.
//
// Returns:
//   - *AssemblyResult: Staves with ordered notes and the drop count.
//
// # Assignment Policy
//
// Each staff's vertical extent is widened by StaffMargin staff spaces on
// both sides to capture stems, flags and ledger-line notes. A candidate
// goes to the staff whose widened extent it overlaps most (ties to the
// upper staff). When it overlaps none, it goes to the staff whose center
// is vertically nearest, unless its center lies more than MaxStaffDistance
// staff spaces beyond that staff's band, in which case it is dropped.
//
// # Ordering
//
// Notes within a staff are sorted by horizontal center, then vertical
// center, then component ID. RelativeIndex follows that order; Index is
// global, staff-major.
func AssembleNotes(staves []score.StaffLine, components []Component, cfg score.Config) *AssemblyResult {
	result := &AssemblyResult{StaffLines: make([]score.StaffLine, len(staves))}
	copy(result.StaffLines, staves)

	assigned := make([][]Component, len(staves))
	for _, c := range components {
		i, ok := assignStaff(staves, c.Bounds, cfg)
		if !ok {
			result.OffStaff++
			continue
		}
		assigned[i] = append(assigned[i], c)
	}

	index := 0
	for i := range result.StaffLines {
		staff := &result.StaffLines[i]
		members := assigned[i]
		sort.SliceStable(members, func(a, b int) bool {
			ca, cb := members[a].Bounds.Center(), members[b].Bounds.Center()
			if ca.X != cb.X {
				return ca.X < cb.X
			}
			if ca.Y != cb.Y {
				return ca.Y < cb.Y
			}
			return members[a].ID < members[b].ID
		})

		staff.Notes = make([]score.Note, len(members))
		for j, c := range members {
			staff.Notes[j] = score.Note{
				Index:            index,
				RelativeIndex:    j,
				LineIndex:        staff.Index,
				Contour:          c.Contour,
				Bounds:           c.Bounds,
				RelativePosition: score.RelativePosition(c.Bounds, staff.Bounds),
				AbsolutePosition: c.Bounds.Center(),
			}
			index++
		}
	}

	return result
}

// assignStaff returns the index in staves of the staff owning box.
func assignStaff(staves []score.StaffLine, box score.BoundingBox, cfg score.Config) (int, bool) {
	best, bestOverlap := -1, 0.0
	for i := range staves {
		s := &staves[i]
		margin := cfg.StaffMargin * s.Space()
		top := float64(s.Bounds.Y) - margin
		bottom := float64(s.Bounds.Bottom()) + margin
		if ov := box.VerticalOverlap(top, bottom); ov > bestOverlap {
			best, bestOverlap = i, ov
		}
	}
	if best >= 0 {
		return best, true
	}

	cy := box.Center().Y
	nearest, nearestDist := -1, math.Inf(1)
	for i := range staves {
		if d := math.Abs(cy - staves[i].Bounds.Center().Y); d < nearestDist {
			nearest, nearestDist = i, d
		}
	}
	if nearest < 0 {
		return 0, false
	}

	s := &staves[nearest]
	if edgeDistance(cy, s.Bounds) > cfg.MaxStaffDistance*s.Space() {
		return 0, false
	}
	return nearest, true
}

// edgeDistance is the vertical distance from y to the rows covered by box,
// 0 when y is within them.
func edgeDistance(y float64, box score.BoundingBox) float64 {
	top, bottom := float64(box.Y), float64(box.Bottom()-1)
	switch {
	case y < top:
		return top - y
	case y > bottom:
		return y - bottom
	default:
		return 0
	}
}
