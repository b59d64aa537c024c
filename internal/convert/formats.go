package convert

import "github.com/ironsheep/pixbridge/internal/bitmap"

// toPixRoute selects the bitmap -> pix transcoder.
type toPixRoute int

const (
	routeIndexed toPixRoute = iota + 1
	routeBgr24
	routeBgra32
)

// pixTarget is the classification of a bitmap source.
type pixTarget struct {
	depth int
	spp   int
	route toPixRoute
}

// classifyBitmap resolves the destination depth and transcoder for a bitmap
// format. Sources must be 1, 8, 24 or 32 bits per pixel; 1- and 8-bit
// sources must be indexed, with Gray8 as the one direct-value exception.
func classifyBitmap(f bitmap.PixelFormat) (pixTarget, error) {
	switch f.BitsPerPixel() {
	case 1, 8:
		if f.IsIndexed() || f == bitmap.FormatGray8 {
			return pixTarget{depth: f.BitsPerPixel(), spp: 1, route: routeIndexed}, nil
		}
	case 24:
		if f == bitmap.FormatBgr24 {
			return pixTarget{depth: 32, spp: 3, route: routeBgr24}, nil
		}
	case 32:
		if f == bitmap.FormatBgra32 {
			return pixTarget{depth: 32, spp: 4, route: routeBgra32}, nil
		}
	}
	return pixTarget{}, &UnsupportedFormatError{Format: f}
}

// DepthFor returns the pix depth a bitmap of format f converts to.
//
// Bgr24 converts to 32 bpp: every engine color pixel is a packed RGBA word.
func DepthFor(f bitmap.PixelFormat) (int, error) {
	t, err := classifyBitmap(f)
	if err != nil {
		return 0, err
	}
	return t.depth, nil
}

// FormatFor returns the bitmap format a pix of the given depth converts to.
func FormatFor(depth int) (bitmap.PixelFormat, error) {
	switch depth {
	case 1:
		return bitmap.FormatIndexed1, nil
	case 8:
		return bitmap.FormatIndexed8, nil
	case 16:
		return bitmap.FormatGray16, nil
	case 32:
		return bitmap.FormatBgra32, nil
	}
	return bitmap.FormatUnknown, &UnsupportedFormatError{Depth: depth}
}

// IndexedRowBytes is the number of bytes an indexed transcoder copies per
// row: ceil(width*bpp/8).
func IndexedRowBytes(width, bpp int) int {
	return (width*bpp + 7) / 8
}
