// Package server implements the MCP (Model Context Protocol) server for
// musical staff parsing.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load a page and get its metadata
//   - score_parse: Parse a page (file or base64) into staff lines and notes
//   - score_overlay: Render the parsed structure over the page
//   - score_note_patch: Crop one note as a classifier-ready square
//   - score_export_csv: Export detections of many pages as a label CSV
//
// Every score tool accepts an optional "config" object overlaid on the
// default pipeline configuration. Unknown keys and out-of-range values are
// rejected before any image is read.
//
// # Image Caching
//
// Pages are decoded once and cached by path, so that parse, overlay and patch
// calls on the same page reuse the raster. The cache persists for the
// lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, which starts with the error kind
//     ("image load error", "no staff detected", "config validation error")
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
