package pix

import (
	"errors"
	"fmt"
)

// Words is a scanline stride measured in 32-bit words.
type Words int

// Offset returns the index of the first word of row y.
func (w Words) Offset(y int) int {
	return y * int(w)
}

var (
	// ErrInvalidDepth is returned when a depth has no engine representation.
	ErrInvalidDepth = errors.New("invalid pix depth")

	// ErrInvalidSize is returned for non-positive dimensions and for rasters
	// larger than MaxWords.
	ErrInvalidSize = errors.New("invalid pix size")

	// ErrColormapTooLarge is returned when a colormap does not fit the depth.
	ErrColormapTooLarge = errors.New("colormap exceeds pix depth")
)

// MaxWords bounds the raster of a single Pix (1 GiB).
const MaxWords = 1 << 28

// Pix is an engine-native raster image.
type Pix struct {
	width  int
	height int
	depth  int
	spp    int
	wpl    Words
	xres   int
	yres   int
	cmap   *Colormap
	data   []uint32
}

// ValidDepth reports whether depth can be allocated.
func ValidDepth(depth int) bool {
	switch depth {
	case 1, 2, 4, 8, 16, 24, 32:
		return true
	}
	return false
}

// WordsPerLine computes the word-aligned stride for a row of width pixels.
func WordsPerLine(width, depth int) Words {
	return Words((width*depth + 31) / 32)
}

// rasterSize validates the geometry and returns the stride and the total
// word count without overflowing int.
func rasterSize(width, height, depth int) (Words, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if !ValidDepth(depth) {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if uint64(width) > 32*MaxWords || uint64(height) > MaxWords {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	wpl := (uint64(width)*uint64(depth) + 31) / 32
	words := wpl * uint64(height)
	if words > MaxWords {
		return 0, 0, fmt.Errorf("%w: %dx%dx%d needs %d words, limit %d",
			ErrInvalidSize, width, height, depth, words, MaxWords)
	}
	return Words(wpl), int(words), nil
}

// New allocates a zeroed Pix.
//
// Parameters:
//   - width, height: Dimensions in pixels. Both must be positive.
//   - depth: Bits per pixel, one of 1, 2, 4, 8, 16, 24, 32.
//
// The raster may not exceed MaxWords. 32 bpp images start with 4 samples per
// pixel (RGBA); every other depth has one sample per pixel except 24, which
// has 3.
func New(width, height, depth int) (*Pix, error) {
	wpl, words, err := rasterSize(width, height, depth)
	if err != nil {
		return nil, err
	}

	return &Pix{
		width:  width,
		height: height,
		depth:  depth,
		spp:    defaultSamplesPerPixel(depth),
		wpl:    wpl,
		data:   make([]uint32, words),
	}, nil
}

func defaultSamplesPerPixel(depth int) int {
	switch depth {
	case 24:
		return 3
	case 32:
		return 4
	}
	return 1
}

// Width returns the width in pixels.
func (p *Pix) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Pix) Height() int { return p.height }

// Depth returns the number of bits per pixel.
func (p *Pix) Depth() int { return p.depth }

// WordsPerLine returns the stride between rows.
func (p *Pix) WordsPerLine() Words { return p.wpl }

// SamplesPerPixel returns 3 for RGB and 4 for RGBA 32 bpp images, 1 otherwise.
func (p *Pix) SamplesPerPixel() int { return p.spp }

// SetSamplesPerPixel records whether a 32 bpp image carries meaningful alpha.
// Only 3 and 4 are accepted, and only for 32 bpp images.
func (p *Pix) SetSamplesPerPixel(spp int) error {
	if p.depth != 32 || (spp != 3 && spp != 4) {
		return fmt.Errorf("invalid samples per pixel %d for depth %d", spp, p.depth)
	}
	p.spp = spp
	return nil
}

// XRes returns the horizontal resolution in pixels per inch (0 if unknown).
func (p *Pix) XRes() int { return p.xres }

// YRes returns the vertical resolution in pixels per inch (0 if unknown).
func (p *Pix) YRes() int { return p.yres }

// SetResolution sets both resolutions in pixels per inch.
func (p *Pix) SetResolution(xres, yres int) {
	p.xres = xres
	p.yres = yres
}

// Data returns the raster words. The slice aliases the Pix buffer.
func (p *Pix) Data() []uint32 { return p.data }

// Row returns the words of row y, wpl words long.
func (p *Pix) Row(y int) []uint32 {
	off := p.wpl.Offset(y)
	return p.data[off : off+int(p.wpl)]
}

// Colormap returns the attached colormap or nil.
func (p *Pix) Colormap() *Colormap { return p.cmap }

// SetColormap attaches cmap, replacing any existing colormap.
//
// Returns ErrColormapTooLarge if the map has more entries than the depth can
// address, or if the depth is above 8. A nil cmap detaches the current map.
// On error the Pix keeps its previous colormap and the caller still owns cmap.
func (p *Pix) SetColormap(cmap *Colormap) error {
	if cmap == nil {
		p.cmap = nil
		return nil
	}
	if p.depth > 8 || cmap.Len() > 1<<p.depth {
		return fmt.Errorf("%w: %d entries at depth %d", ErrColormapTooLarge, cmap.Len(), p.depth)
	}
	p.cmap = cmap
	return nil
}

// Close releases the buffer and the attached colormap.
func (p *Pix) Close() {
	if p == nil {
		return
	}
	if p.cmap != nil {
		p.cmap.Close()
		p.cmap = nil
	}
	p.data = nil
	p.width, p.height, p.wpl = 0, 0, 0
}

// Closed reports whether Close has been called.
func (p *Pix) Closed() bool {
	return p.data == nil
}
