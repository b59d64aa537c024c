package convert

import (
	"errors"
	"fmt"

	"github.com/ironsheep/pixbridge/internal/bitmap"
)

var (
	// ErrUnsupportedFormat matches every *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrColormapBuild matches every *ColormapBuildError.
	ErrColormapBuild = errors.New("colormap build failed")

	// ErrBufferBounds is returned when a buffer is too small for the rows a
	// transcoder would touch.
	ErrBufferBounds = errors.New("buffer too small")
)

// UnsupportedFormatError reports a source that has no conversion in the
// requested direction. Exactly one of Format or Depth is meaningful.
type UnsupportedFormatError struct {
	// Format is the toolkit format of a bitmap source.
	Format bitmap.PixelFormat
	// Depth is the engine depth of a Pix source.
	Depth int
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format != bitmap.FormatUnknown {
		return fmt.Sprintf("unsupported format: bitmap format %v (%d bpp) has no pix equivalent",
			e.Format, e.Format.BitsPerPixel())
	}
	return fmt.Sprintf("unsupported format: pix depth %d has no bitmap equivalent", e.Depth)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) true.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ColormapBuildError reports the palette entry that could not be added.
type ColormapBuildError struct {
	Index int
	Err   error
}

func (e *ColormapBuildError) Error() string {
	return fmt.Sprintf("colormap build failed: entry %d: %v", e.Index, e.Err)
}

func (e *ColormapBuildError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrColormapBuild) true.
func (e *ColormapBuildError) Is(target error) bool {
	return target == ErrColormapBuild
}
