package pix

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Info summarizes a Pix for display.
type Info struct {
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Depth           int      `json:"depth"`
	SamplesPerPixel int      `json:"samples_per_pixel"`
	WordsPerLine    int      `json:"words_per_line"`
	XRes            int      `json:"xres"`
	YRes            int      `json:"yres"`
	ColormapSize    int      `json:"colormap_size"`
	Colormap        []string `json:"colormap,omitempty"` // entries as "#rrggbb"
}

// Describe returns an Info for p.
func (p *Pix) Describe() Info {
	info := Info{
		Width:           p.width,
		Height:          p.height,
		Depth:           p.depth,
		SamplesPerPixel: p.spp,
		WordsPerLine:    int(p.wpl),
		XRes:            p.xres,
		YRes:            p.yres,
	}
	if p.cmap == nil {
		return info
	}

	info.ColormapSize = p.cmap.Len()
	info.Colormap = make([]string, 0, p.cmap.Len())
	for i := 0; i < p.cmap.Len(); i++ {
		c := p.cmap.At(i)
		cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		info.Colormap = append(info.Colormap, cf.Hex())
	}
	return info
}
