package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/staffscan/internal/detection"
	"github.com/ironsheep/staffscan/internal/export"
	"github.com/ironsheep/staffscan/internal/imaging"
	"github.com/ironsheep/staffscan/internal/ocr"
	"github.com/ironsheep/staffscan/internal/score"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "score_parse").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(context.Background(), params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Parses the score and renders or exports the result
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	case "score_parse":
		return s.handleScoreParse(ctx, args)
	case "score_overlay":
		return s.handleScoreOverlay(ctx, args)
	case "score_note_patch":
		return s.handleScoreNotePatch(ctx, args)

	case "score_export_csv":
		return s.handleScoreExportCSV(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating absent arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// newParser builds a parser from the optional config overrides of a call.
func (s *Server) newParser(raw json.RawMessage) (*detection.Parser, error) {
	cfg, err := score.ParseConfig(raw)
	if err != nil {
		return nil, err
	}

	var opts []detection.Option
	if s.debug != nil {
		opts = append(opts, detection.WithLogger(s.debug))
	}
	if cfg.SuppressText {
		opts = append(opts, detection.WithTextLocator(ocr.NewLocator(ocr.DefaultLanguage)))
	}
	return detection.NewParser(cfg, opts...)
}

// parsePath loads path through the cache and parses it.
func (s *Server) parsePath(ctx context.Context, path string, config json.RawMessage) (image.Image, *score.Score, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	parser, err := s.newParser(config)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, err
	}
	sc, err := parser.Parse(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return img, sc, nil
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Score Handlers ===

type scoreParseArgs struct {
	Path            string          `json:"path"`
	ImageBase64     string          `json:"image_base64"`
	Config          json.RawMessage `json:"config"`
	IncludeContours bool            `json:"include_contours"`
}

// noteContour carries a note outline, which the Score tree itself omits.
type noteContour struct {
	Index  int           `json:"index"`
	Points score.Contour `json:"points"`
}

// ScoreParseResult is a parsed score plus optional note outlines.
type ScoreParseResult struct {
	*score.Score
	NoteContours []noteContour `json:"note_contours,omitempty"`
}

func (s *Server) handleScoreParse(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scoreParseArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var sc *score.Score
	switch {
	case a.Path != "":
		_, parsed, err := s.parsePath(ctx, a.Path, a.Config)
		if err != nil {
			return nil, err
		}
		sc = parsed
	case a.ImageBase64 != "":
		parser, err := s.newParser(a.Config)
		if err != nil {
			return nil, err
		}
		img, _, err := imaging.DecodeBase64(a.ImageBase64)
		if err != nil {
			return nil, err
		}
		if sc, err = parser.Parse(ctx, img); err != nil {
			return nil, fmt.Errorf("failed to parse image: %w", err)
		}
	default:
		return nil, fmt.Errorf("either path or image_base64 is required")
	}

	result := &ScoreParseResult{Score: sc}
	if a.IncludeContours {
		for i := range sc.StaffLines {
			for _, n := range sc.StaffLines[i].Notes {
				result.NoteContours = append(result.NoteContours, noteContour{Index: n.Index, Points: n.Contour})
			}
		}
	}
	return result, nil
}

type scoreOverlayArgs struct {
	Path          string          `json:"path"`
	Config        json.RawMessage `json:"config"`
	StaffBounds   *bool           `json:"staff_bounds"`
	StaffContours *bool           `json:"staff_contours"`
	NoteBounds    *bool           `json:"note_bounds"`
	NoteContours  *bool           `json:"note_contours"`
	NoteIndices   *bool           `json:"note_indices"`
	NoteColor     string          `json:"note_color"`
}

func (s *Server) handleScoreOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scoreOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	img, sc, err := s.parsePath(ctx, a.Path, a.Config)
	if err != nil {
		return nil, err
	}

	opts := imaging.DefaultOverlayOptions()
	override := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	override(&opts.StaffBounds, a.StaffBounds)
	override(&opts.StaffContours, a.StaffContours)
	override(&opts.NoteBounds, a.NoteBounds)
	override(&opts.NoteContours, a.NoteContours)
	override(&opts.NoteIndices, a.NoteIndices)
	opts.NoteColorHex = a.NoteColor

	return imaging.RenderOverlay(img, sc, opts)
}

type scoreNotePatchArgs struct {
	Path       string          `json:"path"`
	Config     json.RawMessage `json:"config"`
	NoteIndex  *int            `json:"note_index"`
	Size       *int            `json:"size"`
	FullHeight *bool           `json:"full_height"`
}

// NotePatchResult is a cropped note with the box it was cut from.
type NotePatchResult struct {
	*imaging.CropResult
	NoteIndex int               `json:"note_index"`
	LineIndex int               `json:"line_index"`
	Region    score.BoundingBox `json:"region"`
}

func (s *Server) handleScoreNotePatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scoreNotePatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.NoteIndex == nil {
		return nil, fmt.Errorf("note_index is required")
	}
	size := imaging.DefaultElementSize
	if a.Size != nil {
		if *a.Size < 0 {
			return nil, fmt.Errorf("size must not be negative, got %d", *a.Size)
		}
		size = *a.Size
	}

	img, sc, err := s.parsePath(ctx, a.Path, a.Config)
	if err != nil {
		return nil, err
	}

	note, staff, ok := sc.Note(*a.NoteIndex)
	if !ok {
		return nil, fmt.Errorf("note %d not found (score has %d notes)", *a.NoteIndex, sc.NoteCount())
	}

	region := note.Bounds
	if a.FullHeight == nil || *a.FullHeight {
		region = note.FullHeightBounds(staff)
	}

	patch, err := imaging.CropElement(imaging.ToWorking(img, sc), region, size)
	if err != nil {
		return nil, err
	}
	return &NotePatchResult{
		CropResult: patch,
		NoteIndex:  note.Index,
		LineIndex:  note.LineIndex,
		Region:     region,
	}, nil
}

type scoreExportCSVArgs struct {
	Paths        []string        `json:"paths"`
	Config       json.RawMessage `json:"config"`
	IncludeStaff bool            `json:"include_staff"`
	OutputPath   string          `json:"output_path"`
}

// ExportCSVResult reports an export. CSV is empty when written to a file.
type ExportCSVResult struct {
	Pages      int    `json:"pages"`
	Rows       int    `json:"rows"`
	OutputPath string `json:"output_path,omitempty"`
	CSV        string `json:"csv,omitempty"`
}

func (s *Server) handleScoreExportCSV(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scoreExportCSVArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must list at least one image")
	}

	parser, err := s.newParser(a.Config)
	if err != nil {
		return nil, err
	}

	pages := make([]export.Page, len(a.Paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range a.Paths {
		g.Go(func() error {
			img, err := s.cache.Load(path)
			if err != nil {
				return err
			}
			sc, err := parser.Parse(gctx, img)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
			}
			pages[i] = export.Page{Filename: filepath.Base(path), Score: sc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := 0
	for _, p := range pages {
		rows += p.Score.NoteCount()
		if a.IncludeStaff {
			rows += len(p.Score.StaffLines)
		}
	}
	result := &ExportCSVResult{Pages: len(pages), Rows: rows}

	if a.OutputPath != "" {
		if err := export.WriteDetectionCSVFile(a.OutputPath, pages, a.IncludeStaff); err != nil {
			return nil, err
		}
		result.OutputPath = a.OutputPath
		return result, nil
	}

	var buf bytes.Buffer
	if err := export.WriteDetectionCSV(&buf, pages, a.IncludeStaff); err != nil {
		return nil, err
	}
	result.CSV = buf.String()
	return result, nil
}
