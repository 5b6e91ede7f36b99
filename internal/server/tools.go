package server

import "github.com/ironsheep/staffscan/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the score image file",
	}
}

// configProperty describes the optional pipeline overrides shared by every
// score tool. Omitted keys keep their defaults.
func configProperty() map[string]interface{} {
	num := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "number", "description": desc}
	}
	integer := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc}
	}
	return map[string]interface{}{
		"type":                 "object",
		"description":          "Optional pipeline overrides. Omitted keys use defaults.",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"max_dimension":           integer("Longest side of the working image, 800-2000 (default 1200)"),
			"staff_dilation":          integer("Staff gap bridging factor, 1-10 (default 3)"),
			"note_dilation":           integer("Symbol fragment reconnection radius, 1-10 (default 2)"),
			"min_staff_area":          integer("Minimum staff band area in pixels, 1000-20000 (default 10000)"),
			"min_note_area":           integer("Minimum symbol area in pixels, 10-1000 (default 50)"),
			"overlap_threshold":       num("Merge ratio of intersection over the smaller box, 0.1-0.9 (default 0.5)"),
			"threshold_sigma":         num("Adaptive threshold blur sigma, 1-50 (default 10)"),
			"threshold_offset":        integer("Adaptive threshold offset above local mean, 0-128 (default 15)"),
			"staff_run_fraction":      num("Minimum staff run as a fraction of width, 0.02-0.9 (default 0.1)"),
			"staff_overlap_tolerance": integer("Vertical overlap in pixels before two staves merge, 0-50 (default 2)"),
			"staff_margin":            num("Staff band extension in staff spaces for assignment, 0-8 (default 2)"),
			"max_staff_distance":      num("Drop symbols further than this many staff spaces from a staff, 0-20 (default 6)"),
			"suppress_text": map[string]interface{}{
				"type":        "boolean",
				"description": "Drop symbol candidates covered by OCR-detected words (requires Tesseract)",
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load a score image and return its dimensions, format and file size. The decoded image is cached for subsequent score operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Score Parsing
		{
			Name:        "score_parse",
			Description: "Parse a musical staff image into staff lines and their note components. Returns the staff bands, each note's bounds, its global and per-staff index, and its position relative to the staff in staff spaces. Coordinates are in the working (downscaled) image; 'scale' maps them back to the source.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64 image data (optionally a data: URL). Used when path is omitted.",
					},
					"config": configProperty(),
					"include_contours": map[string]interface{}{
						"type":        "boolean",
						"description": "Include each note's traced outline in the response (default false)",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "score_overlay",
			Description: "Parse a score image and return it with the detected staff bands and notes drawn on top, as base64 PNG. Use this to visually check a parse.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"config": configProperty(),
					"staff_bounds": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw staff band rectangles (default true)",
						"default":     true,
					},
					"staff_contours": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw staff band outlines (default false)",
						"default":     false,
					},
					"note_bounds": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw note rectangles (default true)",
						"default":     true,
					},
					"note_contours": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw traced note outlines (default false)",
						"default":     false,
					},
					"note_indices": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each note with its global index (default true)",
						"default":     true,
					},
					"note_color": map[string]interface{}{
						"type":        "string",
						"description": "Note outline color as hex (#RRGGBB). Defaults to the staff color.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "score_note_patch",
			Description: "Parse a score image and crop one note as base64 PNG, resized to a square classifier input. By default the crop spans the full height of the note's staff.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"config": configProperty(),
					"note_index": map[string]interface{}{
						"type":        "integer",
						"description": "Global note index from score_parse",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Edge of the square output in pixels, 0 keeps the native crop (default 128)",
						"default":     imaging.DefaultElementSize,
					},
					"full_height": map[string]interface{}{
						"type":        "boolean",
						"description": "Crop the note's columns over the whole staff band instead of its own bounds (default true)",
						"default":     true,
					},
				},
				"required": []string{"path", "note_index"},
			},
		},

		// Export
		{
			Name:        "score_export_csv",
			Description: "Parse one or more score images and export detections as a bounding-box label CSV (filename,width,height,class,xmin,ymin,xmax,ymax). Returns the CSV text, or writes it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths of the score images",
					},
					"config": configProperty(),
					"include_staff": map[string]interface{}{
						"type":        "boolean",
						"description": "Also emit one 'staff' row per staff band (default false)",
						"default":     false,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Write the CSV to this file instead of returning it",
					},
				},
				"required": []string{"paths"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
