package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Preprocessing modes accepted by Preprocess.
const (
	PreprocessNone     = "none"
	PreprocessGray     = "gray"
	PreprocessBinarize = "binarize"
	PreprocessSharpen  = "sharpen"
)

// DefaultThreshold is the binarization level used when none is given.
const DefaultThreshold = 128

// bilevel is the palette of binarized images: index 0 black, index 1 white.
var bilevel = color.Palette{
	color.Gray{Y: 0},
	color.Gray{Y: 0xff},
}

// Preprocess prepares img for OCR and decides which conversion path it takes:
//
//	none      img unchanged
//	gray      *image.Gray            (8 bpp Pix)
//	binarize  2-color *image.Paletted (1 bpp Pix, black/white colormap)
//	sharpen   *image.RGBA            (32 bpp Pix)
//
// threshold is only used by "binarize"; 0 selects DefaultThreshold.
func Preprocess(img image.Image, mode string, threshold uint8) (image.Image, error) {
	switch mode {
	case "", PreprocessNone:
		return img, nil
	case PreprocessGray:
		return toGray(effect.Grayscale(img)), nil
	case PreprocessBinarize:
		if threshold == 0 {
			threshold = DefaultThreshold
		}
		return toBilevel(segment.Threshold(img, threshold)), nil
	case PreprocessSharpen:
		return effect.Sharpen(img), nil
	}
	return nil, fmt.Errorf("unknown preprocess mode: %q", mode)
}

// ValidPreprocess reports whether mode is accepted by Preprocess.
func ValidPreprocess(mode string) bool {
	switch mode {
	case "", PreprocessNone, PreprocessGray, PreprocessBinarize, PreprocessSharpen:
		return true
	}
	return false
}

// toGray keeps the red channel of an already gray RGBA image.
func toGray(src *image.RGBA) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		s := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		d := dst.PixOffset(0, y)
		for x := 0; x < bounds.Dx(); x++ {
			dst.Pix[d+x] = src.Pix[s+4*x]
		}
	}
	return dst
}

// toBilevel maps a thresholded image onto the two-entry bilevel palette.
func toBilevel(src *image.Gray) *image.Paletted {
	bounds := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), bilevel)
	for y := 0; y < bounds.Dy(); y++ {
		s := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		d := dst.PixOffset(0, y)
		for x := 0; x < bounds.Dx(); x++ {
			if src.Pix[s+x] != 0 {
				dst.Pix[d+x] = 1
			}
		}
	}
	return dst
}
