// Package server implements the MCP (Model Context Protocol) server that
// exposes the bitmap/Pix converter and Tesseract OCR as tools.
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
// Basic Image Information:
//   - image_load: Load image and report file, bitmap and Pix formats
//   - image_dimensions: Get width and height
//
// Region Operations:
//   - image_crop: Extract rectangular region
//   - image_crop_quadrant: Extract named region (top-left, center, etc.)
//
// Conversion Operations:
//   - image_to_pix: Convert to Pix, describe it, optionally save as spix
//   - image_pix_roundtrip: Convert to Pix and back, count changed pixels
//
// OCR Operations:
//   - image_ocr_full: Extract all text
//   - image_ocr_region: Extract text from region
//   - image_detect_text_regions: Find text bounding boxes
//   - ocr_info: Tesseract version and languages
//
// Optional conversion arguments (language, preprocess, threshold, dpi,
// include_alpha) default to the server's config.Config.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "unsupported pixel format Gray16"
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
