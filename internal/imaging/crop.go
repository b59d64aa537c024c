package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in pixel coordinates; (X1,Y1) is inclusive and
// (X2,Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns r as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropImage validates r against img and returns the cropped image, scaled
// with Lanczos resampling when scale is positive and not 1.
//
// The result is always *image.NRGBA; callers that need an indexed or gray
// bitmap should convert the cropped image again (see Preprocess).
func CropImage(img image.Image, r Region, scale float64) (image.Image, error) {
	bounds := img.Bounds()

	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, r.Rect())

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.3f collapses the %dx%d region", scale, cropped.Bounds().Dx(), cropped.Bounds().Dy())
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}
	return cropped, nil
}

// Crop extracts a rectangular region from an image and returns it as a
// base64 PNG.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	cropped, err := CropImage(img, Region{X1: x1, Y1: y1, X2: x2, Y2: y2}, scale)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// NamedRegion resolves a region name such as "top-left" or "center" against
// img's bounds.
func NamedRegion(img image.Image, name string) (Region, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var r Region
	switch name {
	case "top-left":
		r = Region{0, 0, midX, midY}
	case "top-right":
		r = Region{midX, 0, w, midY}
	case "bottom-left":
		r = Region{0, midY, midX, h}
	case "bottom-right":
		r = Region{midX, midY, w, h}
	case "top-half":
		r = Region{0, 0, w, midY}
	case "bottom-half":
		r = Region{0, midY, w, h}
	case "left-half":
		r = Region{0, 0, midX, h}
	case "right-half":
		r = Region{midX, 0, w, h}
	case "center":
		// Center 50% of the image
		r = Region{w / 4, h / 4, w - w/4, h - h/4}
	default:
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}

	r.X1 += bounds.Min.X
	r.X2 += bounds.Min.X
	r.Y1 += bounds.Min.Y
	r.Y2 += bounds.Min.Y
	return r, nil
}

// CropQuadrant extracts a named region from an image
func CropQuadrant(img image.Image, region string, scale float64) (*CropResult, error) {
	r, err := NamedRegion(img, region)
	if err != nil {
		return nil, err
	}
	return Crop(img, r.X1, r.Y1, r.X2, r.Y2, scale)
}
