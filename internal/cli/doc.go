// Package cli defines the pixbridge command line.
//
// Commands:
//
//	serve                 run the MCP server on stdin/stdout (default)
//	convert IN OUT        image or spix to image or spix, through a Pix
//	info IN               describe an image or spix file as JSON
//	ocr IN                recognize text, optionally in a region
//
// Flags left unset fall back to the YAML configuration (--config) and the
// PIXBRIDGE_* environment variables; see package config.
package cli
