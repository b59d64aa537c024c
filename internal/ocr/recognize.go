package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/convert"
	"github.com/ironsheep/pixbridge/internal/imaging"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a word or text block with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the complete results of text extraction from an image.
type OCRResult struct {
	// FullText is all recognized text as a single string with original spacing/newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words with their bounding boxes and confidence scores.
	// May be empty if bounding box extraction fails (text will still be in FullText).
	Regions []TextRegion `json:"regions"`

	// Pix describes the engine image the text was recognized from.
	Pix pix.Info `json:"pix"`
}

// Options controls how an image is prepared for and handed to Tesseract.
type Options struct {
	// Language is the Tesseract language code, "eng" when empty.
	Language string

	// Preprocess is an imaging.Preprocess mode.
	Preprocess string

	// Threshold is the binarization level for the "binarize" mode.
	Threshold uint8

	// DPI is stored on the Pix and passed to Tesseract; 0 selects
	// bitmap.DefaultDPI.
	DPI float64

	// Converter performs the bitmap/Pix conversions; nil uses the defaults.
	Converter *convert.Converter
}

func (o Options) language() string {
	if o.Language == "" {
		return DefaultLanguage
	}
	return o.Language
}

func (o Options) converter() *convert.Converter {
	if o.Converter == nil {
		return convert.New()
	}
	return o.Converter
}

// PreparePix preprocesses img and converts it into a Pix. The caller owns the
// returned Pix and must Close it.
func PreparePix(img image.Image, opts Options) (*pix.Pix, error) {
	prepared, err := imaging.Preprocess(img, opts.Preprocess, opts.Threshold)
	if err != nil {
		return nil, err
	}

	bmp, err := bitmap.FromImage(prepared, opts.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to build bitmap: %w", err)
	}

	p, err := opts.converter().ToPix(bmp)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to pix: %w", err)
	}
	return p, nil
}

// EncodePNG renders p as an opaque PNG, the form Tesseract is fed with.
func EncodePNG(p *pix.Pix, conv *convert.Converter) ([]byte, error) {
	if conv == nil {
		conv = convert.New()
	}
	bmp, err := conv.ToBitmap(p, false)
	if err != nil {
		return nil, fmt.Errorf("failed to convert pix: %w", err)
	}
	img, err := bmp.Image()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// newClient creates a Tesseract client loaded with p.
func newClient(p *pix.Pix, opts Options) (*gosseract.Client, error) {
	data, err := EncodePNG(p, opts.Converter)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(opts.language()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if p.XRes() > 0 {
		if err := client.SetVariable("user_defined_dpi", strconv.Itoa(p.XRes())); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set resolution: %w", err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return client, nil
}

// ExtractText performs OCR on p and returns the recognized text with word
// boxes in p's coordinates.
//
// If word-level bounding box extraction fails, the full text is still
// returned with an empty Regions slice.
func ExtractText(p *pix.Pix, opts Options) (*OCRResult, error) {
	client, err := newClient(p, opts)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &OCRResult{
		FullText: text,
		Regions:  []TextRegion{},
		Pix:      p.Describe(),
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		result.Regions = append(result.Regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds:     boundsOf(box.Box),
		})
	}
	return result, nil
}

// ExtractTextFromImage prepares img with opts and performs OCR on it.
func ExtractTextFromImage(img image.Image, opts Options) (*OCRResult, error) {
	p, err := PreparePix(img, opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return ExtractText(p, opts)
}

// ExtractTextFromRegion performs OCR on a rectangular region of img.
//
// Returned bounding boxes are in img's coordinates: a word found at (10, 20)
// inside a region starting at (100, 50) is reported at (110, 70).
func ExtractTextFromRegion(img image.Image, r imaging.Region, opts Options) (*OCRResult, error) {
	cropped, err := imaging.CropImage(img, r, 1.0)
	if err != nil {
		return nil, err
	}

	result, err := ExtractTextFromImage(cropped, opts)
	if err != nil {
		return nil, err
	}

	for i := range result.Regions {
		result.Regions[i].Bounds.X1 += r.X1
		result.Regions[i].Bounds.Y1 += r.Y1
		result.Regions[i].Bounds.X2 += r.X1
		result.Regions[i].Bounds.Y2 += r.Y1
	}
	return result, nil
}

// DetectTextRegionsResult contains text region locations without the actual text content.
type DetectTextRegionsResult struct {
	// Regions is the list of detected text regions with bounding boxes.
	Regions []TextRegionBox `json:"regions"`

	// Count is the number of text regions detected.
	Count int `json:"count"`
}

// TextRegionBox represents a detected text region's location without its content.
type TextRegionBox struct {
	// Bounds is the bounding box around the text region.
	Bounds Bounds `json:"bounds"`

	// Confidence is Tesseract's confidence score for this being a text region (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// DetectTextRegions finds block-level text regions in p without returning
// their text. Regions below minConfidence (0.0 to 1.0) are dropped.
func DetectTextRegions(p *pix.Pix, minConfidence float64, opts Options) (*DetectTextRegionsResult, error) {
	client, err := newClient(p, opts)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	regions := make([]TextRegionBox, 0)
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < minConfidence {
			continue
		}
		regions = append(regions, TextRegionBox{
			Bounds:     boundsOf(box.Box),
			Confidence: confidence,
		})
	}

	return &DetectTextRegionsResult{
		Regions: regions,
		Count:   len(regions),
	}, nil
}

func boundsOf(r image.Rectangle) Bounds {
	return Bounds{
		X1: r.Min.X,
		Y1: r.Min.Y,
		X2: r.Max.X,
		Y2: r.Max.Y,
	}
}

// TesseractVersion returns the version of the linked Tesseract library.
func TesseractVersion() string {
	return gosseract.Version()
}

// OCRInfo reports whether OCR is usable in this process.
type OCRInfo struct {
	Available bool     `json:"available"`
	Version   string   `json:"version,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Error     string   `json:"error,omitempty"`
	Backend   string   `json:"backend"`
}

// GetOCRInfo reports the Tesseract version and installed languages.
func GetOCRInfo() OCRInfo {
	info := OCRInfo{
		Version: TesseractVersion(),
		Backend: "gosseract",
	}
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Languages = langs
	info.Available = len(langs) > 0
	if !info.Available {
		info.Error = "no tessdata languages installed"
	}
	return info
}
