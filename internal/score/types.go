package score

import (
	"github.com/google/uuid"
)

// StaffLine is one detected staff system. The five lines of a staff are
// modeled as a single band spanning their vertical extent.
type StaffLine struct {
	// Index is the 0-based top-to-bottom order of the staff in its Score.
	Index int `json:"index"`

	// Contour is the traced outline of the staff band.
	Contour Contour `json:"-"`

	// Bounds is the minimal box enclosing Contour.
	Bounds BoundingBox `json:"bounds"`

	// Notes holds the symbol candidates assigned to this staff, ordered
	// left to right.
	Notes []Note `json:"notes"`

	// Key is signature metadata attached after parsing. Nil until set.
	Key *Key `json:"key"`
}

// Space returns the staff's inter-line spacing in pixels.
func (s *StaffLine) Space() float64 { return StaffSpace(s.Bounds) }

// SetKey attaches signature metadata to the staff.
func (s *StaffLine) SetKey(k Key) {
	k.LineIndex = s.Index
	s.Key = &k
}

// Note is a detected symbol candidate (note head with stem and flags, rest,
// accidental...). Its musical meaning is assigned later through Label.
type Note struct {
	// Index is the global order: staff-major, left-to-right within a staff.
	Index int `json:"index"`

	// RelativeIndex is the left-to-right order within the owning staff.
	RelativeIndex int `json:"relative_index"`

	// LineIndex is the Index of the owning StaffLine.
	LineIndex int `json:"line_index"`

	// Contour holds the boundary points of the symbol (concatenated when the
	// symbol was merged from fragments).
	Contour Contour `json:"-"`

	// Bounds is the minimal box enclosing Contour.
	Bounds BoundingBox `json:"bounds"`

	// RelativePosition is the center offset from the staff's top-left corner,
	// in staff spaces.
	RelativePosition Position `json:"relative_position"`

	// AbsolutePosition is the center of Bounds in working (downscaled) image
	// coordinates, the same space as Bounds. Use Score.ToSource for source
	// page coordinates.
	AbsolutePosition Position `json:"absolute_position"`

	// Label is the class assigned by a classifier. Nil until set.
	Label *string `json:"label"`
}

// SetLabel records a classification label.
func (n *Note) SetLabel(label string) { n.Label = &label }

// LabelOr returns the label, or fallback when none has been set.
func (n *Note) LabelOr(fallback string) string {
	if n.Label == nil {
		return fallback
	}
	return *n.Label
}

// FullHeightBounds returns the note's horizontal extent stretched over the
// whole staff band. This is the crop fed to symbol classifiers.
func (n *Note) FullHeightBounds(staff *StaffLine) BoundingBox {
	return BoundingBox{
		X:      n.Bounds.X,
		Y:      staff.Bounds.Y,
		Width:  n.Bounds.Width,
		Height: staff.Bounds.Height,
	}
}

// TimeSignature is a metric such as 3/4.
type TimeSignature struct {
	Beats    int `json:"beats"`
	BeatType int `json:"beat_type"`
}

// Key is the key/time signature region found at the start of a staff.
type Key struct {
	LineIndex        int           `json:"line_index"`
	Bounds           BoundingBox   `json:"bounds"`
	RelativePosition Position      `json:"relative_position"`
	AbsolutePosition Position      `json:"absolute_position"`
	TimeSignature    TimeSignature `json:"time_signature"`
	Label            *string       `json:"label"`
	Tonality         *string       `json:"tonality"`
}

// NewKey builds a Key for a region of staff, positioned like a Note and
// defaulting to common time.
func NewKey(staff *StaffLine, bounds BoundingBox) Key {
	return Key{
		LineIndex:        staff.Index,
		Bounds:           bounds,
		RelativePosition: RelativePosition(bounds, staff.Bounds),
		AbsolutePosition: bounds.Center(),
		TimeSignature:    TimeSignature{Beats: 4, BeatType: 4},
	}
}

// Stats counts what each stage filtered. Filtering is how the pipeline
// absorbs detection noise, so these numbers explain a thin result.
type Stats struct {
	StaffCandidates     int     `json:"staff_candidates"`
	StaffTooSmall       int     `json:"staff_too_small"`
	StaffMerged         int     `json:"staff_merged"`
	RawComponents       int     `json:"raw_components"`
	ComponentsTooSmall  int     `json:"components_too_small"`
	MergedComponents    int     `json:"merged_components"`
	DegenerateDropped   int     `json:"degenerate_dropped"`
	TextSuppressed      int     `json:"text_suppressed"`
	OffStaffDropped     int     `json:"off_staff_dropped"`
	Notes               int     `json:"notes"`
	EstimatedStaffSpace float64 `json:"estimated_staff_space"`
}

// Score is the structured result of parsing one image.
type Score struct {
	// ID identifies this parse run in logs and exports.
	ID uuid.UUID `json:"id"`

	// Width and Height are the working (downscaled) image dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// SourceWidth and SourceHeight are the dimensions of the input image.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	// Scale is working size divided by source size (at most 1).
	Scale float64 `json:"scale"`

	// StaffLines are ordered top to bottom.
	StaffLines []StaffLine `json:"staff_lines"`

	Stats Stats `json:"stats"`
}

// NoteCount returns the number of notes across all staves.
func (s *Score) NoteCount() int {
	n := 0
	for i := range s.StaffLines {
		n += len(s.StaffLines[i].Notes)
	}
	return n
}

// Note looks up a note by global index and returns it with its staff.
func (s *Score) Note(index int) (*Note, *StaffLine, bool) {
	for i := range s.StaffLines {
		staff := &s.StaffLines[i]
		for j := range staff.Notes {
			if staff.Notes[j].Index == index {
				return &staff.Notes[j], staff, true
			}
		}
	}
	return nil, nil, false
}

// ToSource maps a working-space position back to source image coordinates.
func (s *Score) ToSource(p Position) Position {
	if s.Scale <= 0 || s.Scale == 1 {
		return p
	}
	return Position{X: p.X / s.Scale, Y: p.Y / s.Scale}
}
