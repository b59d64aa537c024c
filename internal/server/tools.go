package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var preprocessProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"none", "gray", "binarize", "sharpen"},
	"description": "Preprocessing before conversion: gray gives an 8 bpp Pix, binarize a 1 bpp Pix. Defaults to the server configuration.",
}

var thresholdProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Binarization level 1-255 for preprocess=binarize. Defaults to the server configuration.",
}

var dpiProperty = map[string]interface{}{
	"type":        "number",
	"description": "Resolution assigned to the image in pixels per inch. Defaults to the server configuration.",
}

var languageProperty = map[string]interface{}{
	"type":        "string",
	"description": "Tesseract language code (e.g., eng, deu). Defaults to the server configuration.",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, file format, the bitmap pixel format it decodes into and the Pix depth that bitmap converts to.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region to extract",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "region"},
			},
		},

		// Conversion Operations
		{
			Name:        "image_to_pix",
			Description: "Convert an image into the OCR engine's Pix format and describe the result (depth, samples per pixel, words per line, resolution, colormap). Optionally save it as an spix file (.spix or zstd-compressed .spix.zst).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"preprocess": preprocessProperty,
					"threshold":  thresholdProperty,
					"dpi":        dpiProperty,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path ending in .spix or .spix.zst to write the Pix to",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_pix_roundtrip",
			Description: "Convert an image (or an .spix/.spix.zst file) to Pix and back to a bitmap, report how many pixels changed, and return the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"preprocess": preprocessProperty,
					"threshold":  thresholdProperty,
					"include_alpha": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep the alpha channel of 32 bpp images. Defaults to the server configuration.",
					},
				},
				"required": []string{"path"},
			},
		},

		// OCR Operations
		{
			Name:        "image_ocr_full",
			Description: "Convert an image to Pix and extract all text with Tesseract, returning word boxes with confidence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"language":   languageProperty,
					"preprocess": preprocessProperty,
					"threshold":  thresholdProperty,
					"dpi":        dpiProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_ocr_region",
			Description: "Extract text from a rectangular region of an image. Word boxes are reported in full-image coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"x1":         map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
					"y1":         map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
					"x2":         map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
					"y2":         map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
					"language":   languageProperty,
					"preprocess": preprocessProperty,
					"threshold":  thresholdProperty,
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_detect_text_regions",
			Description: "Find block-level text regions without returning their text.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence 0.0-1.0 (default 0.5)",
						"default":     0.5,
					},
					"preprocess": preprocessProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report the linked Tesseract version and the installed languages.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
