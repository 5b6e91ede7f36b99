package detection

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/staffscan/internal/score"
)

// Parser turns page images into Score structures. A Parser holds only
// immutable configuration and is safe for concurrent use.
type Parser struct {
	cfg    score.Config
	logger *log.Logger
	text   TextLocator
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger routes per-stage debug output to l. Without it the parser is
// silent.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithTextLocator enables word detection for Config.SuppressText.
func WithTextLocator(t TextLocator) Option {
	return func(p *Parser) { p.text = t }
}

// NewParser validates cfg and builds a Parser. Invalid configuration fails
// here, before any image is touched, with an error matching
// score.ErrConfigValidation.
func NewParser(cfg score.Config, opts ...Option) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p := &Parser{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse runs the full pipeline on one image.
//
// Parameters:
//   - ctx: Cancels the run between stages.
//   - img: Page image. Read only.
//
// Returns:
//   - *score.Score: Staves top to bottom, each with its notes left to
//     right, in working (downscaled) coordinates.
//   - error: ErrImageLoad, ErrNoStaffDetected, or ctx.Err(). No partial
//     result is returned with an error.
//
// # Stages
//
//	Preprocess ─ staff mask ─┬─ DetectStaffLines ────────────────────────────┬─ AssembleNotes
//	                         └─ DetectComponents ─ MergeComponents ─ text ────┘
//
// The two branches share the read-only binary image and mask and run
// concurrently. Assembly starts once both have completed.
func (p *Parser) Parse(ctx context.Context, img image.Image) (*score.Score, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pre, err := Preprocess(img, p.cfg)
	if err != nil {
		return nil, err
	}
	mask := DetectStaffMask(pre.Binary, p.cfg)
	p.debugf("preprocessed %dx%d -> %dx%d (scale %.3f), %d foreground, %d staff-line pixels",
		pre.SourceSize.X, pre.SourceSize.Y, pre.Binary.Width, pre.Binary.Height, pre.Scale,
		pre.Binary.Count(), mask.Count())

	var (
		staff      *StaffResult
		comps      *ComponentsResult
		merged     *MergeResult
		suppressed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := DetectStaffLines(mask, p.cfg)
		if err != nil {
			return err
		}
		staff = r
		return nil
	})
	g.Go(func() error {
		comps = DetectComponents(pre.Binary, mask, p.cfg)
		if err := gctx.Err(); err != nil {
			return err
		}
		merged = MergeComponents(comps.Components, p.cfg)
		if p.cfg.SuppressText && p.text != nil {
			words, err := p.text.LocateWords(gctx, pre.Gray)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				p.debugf("text location failed, keeping all candidates: %v", err)
				return nil
			}
			merged.Components, suppressed = SuppressText(merged.Components, words)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.debugf("staff: %d candidates, %d too small, %d merged, %d kept (gap %.1f, thickness %.1f)",
		staff.Candidates, staff.TooSmall, staff.Merged, len(staff.StaffLines), staff.LineGap, staff.LineThickness)
	p.debugf("components: %d raw, %d too small, %d merged away, %d degenerate, %d text",
		comps.Raw, comps.TooSmall, merged.Merged, merged.Degenerate, suppressed)

	assembled := AssembleNotes(staff.StaffLines, merged.Components, p.cfg)

	s := &score.Score{
		ID:           uuid.New(),
		Width:        pre.Binary.Width,
		Height:       pre.Binary.Height,
		SourceWidth:  pre.SourceSize.X,
		SourceHeight: pre.SourceSize.Y,
		Scale:        pre.Scale,
		StaffLines:   assembled.StaffLines,
		Stats: score.Stats{
			StaffCandidates:     staff.Candidates,
			StaffTooSmall:       staff.TooSmall,
			StaffMerged:         staff.Merged,
			RawComponents:       comps.Raw,
			ComponentsTooSmall:  comps.TooSmall,
			MergedComponents:    merged.Merged,
			DegenerateDropped:   merged.Degenerate,
			TextSuppressed:      suppressed,
			OffStaffDropped:     assembled.OffStaff,
			EstimatedStaffSpace: staff.Space(),
		},
	}
	s.Stats.Notes = s.NoteCount()

	p.debugf("score %s: %d staves, %d notes, %d off-staff", s.ID, len(s.StaffLines), s.Stats.Notes, assembled.OffStaff)
	return s, nil
}

func (p *Parser) debugf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
