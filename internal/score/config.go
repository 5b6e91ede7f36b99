package score

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Config holds the tunable parameters of the parsing pipeline.
//
// The zero value is not usable; start from DefaultConfig and override
// fields, or use ParseConfig to overlay JSON on the defaults.
type Config struct {
	// MaxDimension is the longest side of the working image. Larger inputs
	// are downscaled; smaller inputs are never upscaled. Range 800-2000.
	MaxDimension int `json:"max_dimension"`

	// StaffDilation scales the horizontal gap bridging applied to staff
	// lines. Range 1-10.
	StaffDilation int `json:"staff_dilation"`

	// NoteDilation is the radius used to reconnect fragments of one symbol
	// once staff lines are removed. Too large and symbols on adjacent lines
	// fuse. Range 1-10.
	NoteDilation int `json:"note_dilation"`

	// MinStaffArea is the minimum bounding-box area of a staff band.
	// Range 1000-20000.
	MinStaffArea int `json:"min_staff_area"`

	// MinNoteArea is the minimum pixel area of a symbol component.
	// Range 10-1000.
	MinNoteArea int `json:"min_note_area"`

	// OverlapThreshold is the intersection-over-smaller-area ratio above
	// which two components are merged. Range 0.1-0.9.
	OverlapThreshold float64 `json:"overlap_threshold"`

	// ThresholdSigma is the Gaussian sigma of the local mean used by
	// adaptive thresholding. Range 1-50.
	ThresholdSigma float64 `json:"threshold_sigma"`

	// ThresholdOffset is how far above the local mean a pixel must be to
	// count as ink. Range 0-128.
	ThresholdOffset int `json:"threshold_offset"`

	// StaffRunFraction is the minimum horizontal run, as a fraction of the
	// image width, for a pixel to be treated as part of a staff line.
	// Range 0.02-0.9.
	StaffRunFraction float64 `json:"staff_run_fraction"`

	// StaffOverlapTolerance is the vertical overlap in pixels tolerated
	// between two staff bands before they are merged into one. Range 0-50.
	StaffOverlapTolerance int `json:"staff_overlap_tolerance"`

	// StaffMargin extends each staff band above and below, in staff spaces,
	// when assigning symbols. Range 0-8.
	StaffMargin float64 `json:"staff_margin"`

	// MaxStaffDistance is the distance in staff spaces beyond a staff band
	// edge after which an unassigned symbol is dropped. Range 0-20.
	MaxStaffDistance float64 `json:"max_staff_distance"`

	// SuppressText drops symbol candidates covered by detected words.
	SuppressText bool `json:"suppress_text"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxDimension:          1200,
		StaffDilation:         3,
		NoteDilation:          2,
		MinStaffArea:          10000,
		MinNoteArea:           50,
		OverlapThreshold:      0.5,
		ThresholdSigma:        10,
		ThresholdOffset:       15,
		StaffRunFraction:      0.1,
		StaffOverlapTolerance: 2,
		StaffMargin:           2,
		MaxStaffDistance:      6,
	}
}

// Validate checks every field against its documented range. All violations
// are reported; each one matches ErrConfigValidation with errors.Is.
func (c Config) Validate() error {
	var errs []error
	checkInt := func(name string, v, lo, hi int) {
		if v < lo || v > hi {
			errs = append(errs, Errorf(ErrConfigValidation, "%s=%d outside [%d, %d]", name, v, lo, hi))
		}
	}
	checkFloat := func(name string, v, lo, hi float64) {
		if !(v >= lo && v <= hi) {
			errs = append(errs, Errorf(ErrConfigValidation, "%s=%g outside [%g, %g]", name, v, lo, hi))
		}
	}

	checkInt("max_dimension", c.MaxDimension, 800, 2000)
	checkInt("staff_dilation", c.StaffDilation, 1, 10)
	checkInt("note_dilation", c.NoteDilation, 1, 10)
	checkInt("min_staff_area", c.MinStaffArea, 1000, 20000)
	checkInt("min_note_area", c.MinNoteArea, 10, 1000)
	checkFloat("overlap_threshold", c.OverlapThreshold, 0.1, 0.9)
	checkFloat("threshold_sigma", c.ThresholdSigma, 1, 50)
	checkInt("threshold_offset", c.ThresholdOffset, 0, 128)
	checkFloat("staff_run_fraction", c.StaffRunFraction, 0.02, 0.9)
	checkInt("staff_overlap_tolerance", c.StaffOverlapTolerance, 0, 50)
	checkFloat("staff_margin", c.StaffMargin, 0, 8)
	checkFloat("max_staff_distance", c.MaxStaffDistance, 0, 20)

	return errors.Join(errs...)
}

// ParseConfig overlays a JSON object on DefaultConfig and validates the
// result. Empty input yields the defaults. Unknown keys are rejected.
func ParseConfig(raw json.RawMessage) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to decode config: %w", ErrConfigValidation, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
