package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/imaging"
	"github.com/ironsheep/pixbridge/internal/ocr"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_to_pix").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Info("tool failed", "tool", params.Name, "error", err)
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
//  2. Fills unset optional parameters from the server configuration
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/convert/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Region Operations
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_quadrant":
		return s.handleImageCropQuadrant(args)

	// Conversion Operations
	case "image_to_pix":
		return s.handleImageToPix(args)
	case "image_pix_roundtrip":
		return s.handleImagePixRoundtrip(args)

	// OCR Operations
	case "image_ocr_full":
		return s.handleImageOCRFull(args)
	case "image_ocr_region":
		return s.handleImageOCRRegion(args)
	case "image_detect_text_regions":
		return s.handleImageDetectTextRegions(args)
	case "ocr_info":
		return ocr.GetOCRInfo(), nil

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// prepareArgs are the conversion settings shared by several tools. Zero
// values fall back to the server configuration.
type prepareArgs struct {
	Language   string  `json:"language"`
	Preprocess string  `json:"preprocess"`
	Threshold  int     `json:"threshold"`
	DPI        float64 `json:"dpi"`
}

func (s *Server) ocrOptions(a prepareArgs) (ocr.Options, error) {
	opts := ocr.Options{
		Language:   a.Language,
		Preprocess: a.Preprocess,
		DPI:        a.DPI,
		Converter:  s.conv,
	}
	if opts.Language == "" {
		opts.Language = s.cfg.Language
	}
	if opts.Preprocess == "" {
		opts.Preprocess = s.cfg.Preprocess
	}
	if opts.DPI == 0 {
		opts.DPI = s.cfg.DPI
	}

	threshold := a.Threshold
	if threshold == 0 {
		threshold = s.cfg.Threshold
	}
	if threshold < 1 || threshold > 255 {
		return ocr.Options{}, fmt.Errorf("threshold must be between 1 and 255, got %d", threshold)
	}
	opts.Threshold = uint8(threshold)

	if !imaging.ValidPreprocess(opts.Preprocess) {
		return ocr.Options{}, fmt.Errorf("unknown preprocess mode: %q", opts.Preprocess)
	}
	return opts, nil
}

// encodeBase64PNG renders img as base64 PNG.
func encodeBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

type imageCropQuadrantArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a imageCropQuadrantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropQuadrant(img, a.Region, a.Scale)
}

// === Conversion Handlers ===

type imageToPixArgs struct {
	Path string `json:"path"`
	prepareArgs
	Output string `json:"output"`
}

// ToPixResult describes a converted image.
type ToPixResult struct {
	BitmapFormat string   `json:"bitmap_format"`
	Pix          pix.Info `json:"pix"`
	Output       string   `json:"output,omitempty"`
}

func (s *Server) handleImageToPix(args json.RawMessage) (interface{}, error) {
	var a imageToPixArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output != "" && !pix.IsSPixPath(a.Output) {
		return nil, fmt.Errorf("output must end in .spix or .spix.zst: %s", a.Output)
	}
	opts, err := s.ocrOptions(a.prepareArgs)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	prepared, err := imaging.Preprocess(img, opts.Preprocess, opts.Threshold)
	if err != nil {
		return nil, err
	}
	bmp, err := bitmap.FromImage(prepared, opts.DPI)
	if err != nil {
		return nil, err
	}
	p, err := s.conv.ToPix(bmp)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	if a.Output != "" {
		if err := pix.WriteFile(a.Output, p); err != nil {
			return nil, err
		}
	}

	return &ToPixResult{
		BitmapFormat: bmp.Format().String(),
		Pix:          p.Describe(),
		Output:       a.Output,
	}, nil
}

type imagePixRoundtripArgs struct {
	Path string `json:"path"`
	prepareArgs
	IncludeAlpha *bool `json:"include_alpha"`
}

// RoundtripResult reports a bitmap -> Pix -> bitmap conversion.
type RoundtripResult struct {
	InputFormat  string   `json:"input_format,omitempty"`
	Pix          pix.Info `json:"pix"`
	OutputFormat string   `json:"output_format"`
	IncludeAlpha bool     `json:"include_alpha"`

	// ChangedPixels counts pixels whose color differs between input and
	// output; absent when the input was an spix file.
	ChangedPixels *int `json:"changed_pixels,omitempty"`

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleImagePixRoundtrip(args json.RawMessage) (interface{}, error) {
	var a imagePixRoundtripArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	includeAlpha := s.cfg.IncludeAlpha
	if a.IncludeAlpha != nil {
		includeAlpha = *a.IncludeAlpha
	}

	result := &RoundtripResult{IncludeAlpha: includeAlpha, MimeType: "image/png"}

	var (
		p   *pix.Pix
		in  image.Image
		err error
	)
	if pix.IsSPixPath(a.Path) {
		if p, err = pix.ReadFile(a.Path); err != nil {
			return nil, err
		}
	} else {
		opts, err := s.ocrOptions(a.prepareArgs)
		if err != nil {
			return nil, err
		}
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		prepared, err := imaging.Preprocess(img, opts.Preprocess, opts.Threshold)
		if err != nil {
			return nil, err
		}
		bmp, err := bitmap.FromImage(prepared, opts.DPI)
		if err != nil {
			return nil, err
		}
		result.InputFormat = bmp.Format().String()
		if in, err = bmp.Image(); err != nil {
			return nil, err
		}
		if p, err = s.conv.ToPix(bmp); err != nil {
			return nil, err
		}
	}
	defer p.Close()
	result.Pix = p.Describe()

	back, err := s.conv.ToBitmap(p, includeAlpha)
	if err != nil {
		return nil, err
	}
	result.OutputFormat = back.Format().String()

	out, err := back.Image()
	if err != nil {
		return nil, err
	}
	if in != nil {
		n := countChangedPixels(in, out)
		result.ChangedPixels = &n
	}
	if result.ImageBase64, err = encodeBase64PNG(out); err != nil {
		return nil, err
	}
	return result, nil
}

// countChangedPixels compares a and b in straight-alpha 8-bit color.
func countChangedPixels(a, b image.Image) int {
	ab, bb := a.Bounds(), b.Bounds()
	changed := 0
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := color.NRGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y))
			cb := color.NRGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y))
			if ca != cb {
				changed++
			}
		}
	}
	return changed
}

// === OCR Operation Handlers ===

type imageOCRFullArgs struct {
	Path string `json:"path"`
	prepareArgs
}

func (s *Server) handleImageOCRFull(args json.RawMessage) (interface{}, error) {
	var a imageOCRFullArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.ocrOptions(a.prepareArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return ocr.ExtractTextFromImage(img, opts)
}

type imageOCRRegionArgs struct {
	Path string `json:"path"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
	prepareArgs
}

func (s *Server) handleImageOCRRegion(args json.RawMessage) (interface{}, error) {
	var a imageOCRRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.ocrOptions(a.prepareArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	region := imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}
	return ocr.ExtractTextFromRegion(img, region, opts)
}

type imageDetectTextRegionsArgs struct {
	Path          string  `json:"path"`
	MinConfidence float64 `json:"min_confidence"`
	prepareArgs
}

func (s *Server) handleImageDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a imageDetectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = 0.5
	}
	opts, err := s.ocrOptions(a.prepareArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p, err := ocr.PreparePix(img, opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return ocr.DetectTextRegions(p, a.MinConfidence, opts)
}
