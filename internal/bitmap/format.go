package bitmap

import "fmt"

// PixelFormat describes the layout of one pixel in a Bitmap buffer.
type PixelFormat uint8

const (
	// FormatUnknown is the zero value and is never valid.
	FormatUnknown PixelFormat = iota

	// FormatBlackWhite is 1 bpp, 0 = black, 1 = white, no palette.
	FormatBlackWhite

	// FormatIndexed1 is 1 bpp palette indices.
	FormatIndexed1

	// FormatIndexed2 is 2 bpp palette indices.
	FormatIndexed2

	// FormatIndexed4 is 4 bpp palette indices.
	FormatIndexed4

	// FormatIndexed8 is 8 bpp palette indices.
	FormatIndexed8

	// FormatGray8 is 8-bit grayscale.
	FormatGray8

	// FormatGray16 is 16-bit grayscale, little-endian.
	FormatGray16

	// FormatBgr565 is 16 bpp packed color.
	FormatBgr565

	// FormatBgr24 is 3 bytes per pixel in B, G, R order.
	FormatBgr24

	// FormatBgra32 is 4 bytes per pixel in B, G, R, A order, straight alpha.
	FormatBgra32

	// FormatRgba64 is 8 bytes per pixel, 16 bits per channel.
	FormatRgba64

	formatCount
)

// formatInfo holds the static description of a format.
type formatInfo struct {
	name    string
	bpp     int
	indexed bool
}

var formatTable = [formatCount]formatInfo{
	FormatUnknown:    {"Unknown", 0, false},
	FormatBlackWhite: {"BlackWhite", 1, false},
	FormatIndexed1:   {"Indexed1", 1, true},
	FormatIndexed2:   {"Indexed2", 2, true},
	FormatIndexed4:   {"Indexed4", 4, true},
	FormatIndexed8:   {"Indexed8", 8, true},
	FormatGray8:      {"Gray8", 8, false},
	FormatGray16:     {"Gray16", 16, false},
	FormatBgr565:     {"Bgr565", 16, false},
	FormatBgr24:      {"Bgr24", 24, false},
	FormatBgra32:     {"Bgra32", 32, false},
	FormatRgba64:     {"Rgba64", 64, false},
}

// Valid reports whether f is a known, non-zero format.
func (f PixelFormat) Valid() bool {
	return f > FormatUnknown && f < formatCount
}

// BitsPerPixel returns the number of bits used by one pixel.
func (f PixelFormat) BitsPerPixel() int {
	if f >= formatCount {
		return 0
	}
	return formatTable[f].bpp
}

// IsIndexed reports whether pixels are palette indices.
func (f PixelFormat) IsIndexed() bool {
	if f >= formatCount {
		return false
	}
	return formatTable[f].indexed
}

// PaletteCapacity returns the number of palette slots an indexed format
// addresses, or 0 for direct-color formats.
func (f PixelFormat) PaletteCapacity() int {
	if !f.IsIndexed() {
		return 0
	}
	return 1 << f.BitsPerPixel()
}

func (f PixelFormat) String() string {
	if f >= formatCount {
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
	return formatTable[f].name
}

// Bytes is a scanline stride measured in bytes.
type Bytes int

// Offset returns the index of the first byte of row y.
func (b Bytes) Offset(y int) int {
	return y * int(b)
}

// RowBytes returns the number of bytes that hold width pixels of format f,
// without padding.
func RowBytes(width int, f PixelFormat) int {
	return (width*f.BitsPerPixel() + 7) / 8
}

// DefaultStride returns RowBytes rounded up to a multiple of 4.
func DefaultStride(width int, f PixelFormat) Bytes {
	return Bytes((RowBytes(width, f) + 3) &^ 3)
}
