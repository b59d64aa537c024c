package convert

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// Converter moves images between bitmap.Bitmap and pix.Pix.
//
// A Converter holds only its options; every call allocates its own
// destination and worker pool, so a Converter may be shared or created per
// call.
type Converter struct {
	workers int
	logger  *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithWorkers sets the number of goroutines that transcode rows. Values
// below 1 select GOMAXPROCS; 1 runs every row on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

// WithLogger sets the logger. nil keeps the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		workers: runtime.GOMAXPROCS(0),
		logger:  Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// ToPix converts a bitmap with the default options.
func ToPix(src *bitmap.Bitmap) (*pix.Pix, error) {
	return New().ToPix(src)
}

// ToBitmap converts a pix with the default options.
func ToBitmap(src *pix.Pix, includeAlpha bool) (*bitmap.Bitmap, error) {
	return New().ToBitmap(src, includeAlpha)
}

// ToPix converts src into a newly allocated Pix.
//
// Accepted formats are Indexed1, Indexed8, Gray8, Bgr24 and Bgra32. Any other
// format fails with an *UnsupportedFormatError before anything is allocated.
//
// The resolution is rounded to whole pixels per inch. Indexed sources get a
// colormap built from their palette. src stays locked for the whole
// transcode. On failure the partially built Pix is closed and nil is returned.
func (c *Converter) ToPix(src *bitmap.Bitmap) (*pix.Pix, error) {
	target, err := classifyBitmap(src.Format())
	if err != nil {
		return nil, err
	}

	dst, err := pix.New(src.Width(), src.Height(), target.depth)
	if err != nil {
		return nil, err
	}
	if target.depth == 32 {
		if err := dst.SetSamplesPerPixel(target.spp); err != nil {
			dst.Close()
			return nil, err
		}
	}
	dpiX, dpiY := src.DPI()
	dst.SetResolution(int(math.Round(dpiX)), int(math.Round(dpiY)))

	if src.Format().IsIndexed() {
		cmap, err := colormapFromPalette(src.Palette(), target.depth)
		if err != nil {
			dst.Close()
			return nil, err
		}
		if err := attachColormap(dst, cmap); err != nil {
			dst.Close()
			return nil, err
		}
	}

	buf := src.Lock()
	defer src.Unlock()

	w, h := src.Width(), src.Height()
	switch target.route {
	case routeBgra32:
		err = bgra32ToPix(buf, dst, w, h, c.workers)
	case routeBgr24:
		err = bgr24ToPix(buf, dst, w, h, c.workers)
	case routeIndexed:
		err = indexedToPix(buf, dst, w, h, src.Format().BitsPerPixel(), c.workers)
	}
	if err != nil {
		dst.Close()
		return nil, err
	}

	c.logger.Debug("converted bitmap to pix",
		"format", src.Format().String(),
		"width", w,
		"height", h,
		"depth", dst.Depth(),
		"workers", c.workers)
	return dst, nil
}

// ToBitmap converts src into a newly allocated Bitmap.
//
// Depth 1 and 8 become Indexed1 and Indexed8, 16 becomes Gray16 and 32
// becomes Bgra32; any other depth fails with an *UnsupportedFormatError.
//
// When includeAlpha is false every output pixel is fully opaque; otherwise the
// source alpha byte is kept. A colormap larger than the destination palette
// is replaced by a gray ramp.
func (c *Converter) ToBitmap(src *pix.Pix, includeAlpha bool) (*bitmap.Bitmap, error) {
	format, err := FormatFor(src.Depth())
	if err != nil {
		return nil, err
	}

	var pal bitmap.Palette
	if format.IsIndexed() {
		pal = c.paletteFor(src, format)
	}

	dst, err := bitmap.New(src.Width(), src.Height(), float64(src.XRes()), float64(src.YRes()), format, pal)
	if err != nil {
		return nil, err
	}

	buf := dst.Lock()
	defer dst.Unlock()

	w, h := src.Width(), src.Height()
	switch format {
	case bitmap.FormatBgra32:
		var alphaMask uint8 = 0xff
		if includeAlpha {
			alphaMask = 0
		}
		err = pixToBgra32(src, buf, w, h, alphaMask, c.workers)
	case bitmap.FormatGray16:
		err = pixToGray16(src, buf, w, h, c.workers)
	default:
		err = pixToIndexed(src, buf, w, h, src.Depth(), c.workers)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("converted pix to bitmap",
		"depth", src.Depth(),
		"format", format.String(),
		"width", w,
		"height", h,
		"include_alpha", includeAlpha,
		"workers", c.workers)
	return dst, nil
}

// paletteFor picks the destination palette for an indexed pix.
func (c *Converter) paletteFor(src *pix.Pix, format bitmap.PixelFormat) bitmap.Palette {
	capacity := format.PaletteCapacity()

	cmap := src.Colormap()
	if cmap == nil || cmap.Len() == 0 {
		if src.Depth() == 1 {
			return append(bitmap.Palette(nil), minIsWhite...)
		}
		return GrayRamp(capacity)
	}

	if cmap.Len() > capacity {
		c.logger.Debug("colormap does not fit palette, using gray ramp",
			"entries", cmap.Len(),
			"capacity", capacity)
	}
	return paletteFromColormap(cmap, capacity)
}
