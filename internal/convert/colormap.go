package convert

import (
	"fmt"

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// colorTable is the read side of an engine colormap.
type colorTable interface {
	Len() int
	At(i int) pix.Color
}

// attachColormap gives cmap to dst. On failure cmap is closed and the cause
// is returned wrapped; dst is left untouched.
func attachColormap(dst *pix.Pix, cmap *pix.Colormap) error {
	if err := dst.SetColormap(cmap); err != nil {
		cmap.Close()
		return fmt.Errorf("failed to attach colormap: %w", err)
	}
	return nil
}

// colormapFromPalette builds a colormap for a pix of the given depth from a
// bitmap palette, in index order. Alpha is dropped.
//
// If an entry cannot be added the partial colormap is closed and a
// *ColormapBuildError naming the entry is returned.
func colormapFromPalette(pal bitmap.Palette, depth int) (*pix.Colormap, error) {
	cmap, err := pix.NewColormap(depth)
	if err != nil {
		return nil, &ColormapBuildError{Index: 0, Err: err}
	}

	for i, c := range pal {
		if err := cmap.AddColor(pix.Color{R: c.R, G: c.G, B: c.B}); err != nil {
			cmap.Close()
			return nil, &ColormapBuildError{Index: i, Err: err}
		}
	}
	return cmap, nil
}

// paletteFromColormap builds a bitmap palette with room for capacity slots.
//
// When src fits, its entries are copied verbatim with full alpha. When src is
// nil or larger than capacity the colors are dropped and a gray ramp of
// capacity entries is returned instead; this never fails.
func paletteFromColormap(src colorTable, capacity int) bitmap.Palette {
	if src == nil || src.Len() == 0 || src.Len() > capacity {
		return GrayRamp(capacity)
	}

	pal := make(bitmap.Palette, src.Len())
	for i := range pal {
		c := src.At(i)
		pal[i] = bitmap.Color{A: 0xff, R: c.R, G: c.G, B: c.B}
	}
	return pal
}

// GrayRamp returns n opaque grays from black to white, entry i being
// round(i*255/(n-1)).
func GrayRamp(n int) bitmap.Palette {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return bitmap.Palette{{A: 0xff}}
	}

	last := n - 1
	pal := make(bitmap.Palette, n)
	for i := range pal {
		v := uint8((i*255 + last/2) / last)
		pal[i] = bitmap.Color{A: 0xff, R: v, G: v, B: v}
	}
	return pal
}

// minIsWhite is the palette for a 1 bpp pix without colormap: the engine
// treats 0 as white and 1 as black.
var minIsWhite = bitmap.Palette{
	{A: 0xff, R: 0xff, G: 0xff, B: 0xff},
	{A: 0xff},
}
