// Package bitmap implements the toolkit-side image: a byte-aligned buffer in
// BGRA, BGR, grayscale or palette-indexed layout.
//
// A Bitmap is mutable. Code that reads or writes its buffer must hold the
// buffer lock for the whole access:
//
//	buf := bmp.Lock()
//	defer bmp.Unlock()
//	row := buf.Pix[buf.Stride.Offset(y):]
//
// The lock is exclusive; no two holders ever share the buffer.
package bitmap

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidFormat is returned for unknown pixel formats.
	ErrInvalidFormat = errors.New("invalid pixel format")

	// ErrInvalidSize is returned for non-positive dimensions.
	ErrInvalidSize = errors.New("invalid bitmap size")

	// ErrPalette is returned when a palette does not suit the format.
	ErrPalette = errors.New("invalid palette")
)

// DefaultDPI is used when a source carries no resolution.
const DefaultDPI = 96.0

// Color is an ARGB palette entry.
type Color struct {
	A uint8 `json:"a"`
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Palette is an ordered color table.
type Palette []Color

// BackBuffer is the view handed out by Lock.
type BackBuffer struct {
	Pix    []byte
	Stride Bytes
}

// Bitmap is a toolkit-native image.
type Bitmap struct {
	mu sync.Mutex

	width   int
	height  int
	dpiX    float64
	dpiY    float64
	format  PixelFormat
	palette Palette
	stride  Bytes
	buf     []byte
}

// New allocates a zeroed Bitmap.
//
// Parameters:
//   - width, height: Dimensions in pixels. Both must be positive.
//   - dpiX, dpiY: Resolution in dots per inch.
//   - format: Pixel layout.
//   - palette: Required for indexed formats (1 to PaletteCapacity entries),
//     must be empty otherwise. The palette is copied.
func New(width, height int, dpiX, dpiY float64, format PixelFormat, palette Palette) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, format)
	}

	if format.IsIndexed() {
		if len(palette) == 0 || len(palette) > format.PaletteCapacity() {
			return nil, fmt.Errorf("%w: %d entries for %v", ErrPalette, len(palette), format)
		}
	} else if len(palette) != 0 {
		return nil, fmt.Errorf("%w: %v does not take a palette", ErrPalette, format)
	}

	var pal Palette
	if len(palette) > 0 {
		pal = append(Palette(nil), palette...)
	}

	stride := DefaultStride(width, format)
	return &Bitmap{
		width:   width,
		height:  height,
		dpiX:    dpiX,
		dpiY:    dpiY,
		format:  format,
		palette: pal,
		stride:  stride,
		buf:     make([]byte, stride.Offset(height)),
	}, nil
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.height }

// DPI returns the horizontal and vertical resolution.
func (b *Bitmap) DPI() (x, y float64) { return b.dpiX, b.dpiY }

// Format returns the pixel format.
func (b *Bitmap) Format() PixelFormat { return b.format }

// Stride returns the distance between rows.
func (b *Bitmap) Stride() Bytes { return b.stride }

// Palette returns a copy of the palette (nil for direct-color formats).
func (b *Bitmap) Palette() Palette {
	if b.palette == nil {
		return nil
	}
	return append(Palette(nil), b.palette...)
}

// Lock acquires exclusive access to the buffer. Every Lock must be paired
// with Unlock.
func (b *Bitmap) Lock() BackBuffer {
	b.mu.Lock()
	return BackBuffer{Pix: b.buf, Stride: b.stride}
}

// TryLock is Lock without blocking. ok is false if the buffer is held.
func (b *Bitmap) TryLock() (buf BackBuffer, ok bool) {
	if !b.mu.TryLock() {
		return BackBuffer{}, false
	}
	return BackBuffer{Pix: b.buf, Stride: b.stride}, true
}

// Unlock releases the buffer.
func (b *Bitmap) Unlock() {
	b.mu.Unlock()
}
