package convert

import (
	"errors"
	"testing"

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// fakeTable is a colorTable of arbitrary length.
type fakeTable []pix.Color

func (f fakeTable) Len() int           { return len(f) }
func (f fakeTable) At(i int) pix.Color { return f[i] }

func TestPaletteFromColormap_OversizedFallsBackToRamp(t *testing.T) {
	src := make(fakeTable, 300)
	for i := range src {
		src[i] = pix.Color{R: 200, G: 10, B: 10}
	}

	pal := paletteFromColormap(src, 256)
	if len(pal) != 256 {
		t.Fatalf("entries: got %d, want 256", len(pal))
	}
	if pal[0] != (bitmap.Color{A: 255}) {
		t.Errorf("entry 0: got %+v, want opaque black", pal[0])
	}
	if pal[255] != (bitmap.Color{A: 255, R: 255, G: 255, B: 255}) {
		t.Errorf("entry 255: got %+v, want opaque white", pal[255])
	}
	for i := 1; i < len(pal); i++ {
		if pal[i].R <= pal[i-1].R {
			t.Fatalf("ramp not strictly increasing at %d: %d <= %d", i, pal[i].R, pal[i-1].R)
		}
		if pal[i].R != pal[i].G || pal[i].G != pal[i].B || pal[i].A != 255 {
			t.Fatalf("entry %d is not an opaque gray: %+v", i, pal[i])
		}
	}
}

func TestPaletteFromColormap_CopiesWhenItFits(t *testing.T) {
	src := fakeTable{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}

	pal := paletteFromColormap(src, 2)
	want := bitmap.Palette{{A: 255, R: 1, G: 2, B: 3}, {A: 255, R: 4, G: 5, B: 6}}
	if len(pal) != len(want) || pal[0] != want[0] || pal[1] != want[1] {
		t.Errorf("got %v, want %v", pal, want)
	}
}

func TestGrayRamp(t *testing.T) {
	tests := []struct {
		n    int
		want []uint8
	}{
		{2, []uint8{0, 255}},
		{4, []uint8{0, 85, 170, 255}},
		{16, []uint8{0, 17, 34, 51, 68, 85, 102, 119, 136, 153, 170, 187, 204, 221, 238, 255}},
	}
	for _, tt := range tests {
		pal := GrayRamp(tt.n)
		if len(pal) != tt.n {
			t.Fatalf("GrayRamp(%d): %d entries", tt.n, len(pal))
		}
		for i, v := range tt.want {
			if pal[i].R != v {
				t.Errorf("GrayRamp(%d)[%d]: got %d, want %d", tt.n, i, pal[i].R, v)
			}
		}
	}

	if GrayRamp(0) != nil {
		t.Error("GrayRamp(0) should be nil")
	}
}

func TestColormapFromPalette_Overflow(t *testing.T) {
	pal := bitmap.Palette{{A: 255}, {A: 255, R: 9}, {A: 255, R: 18}}

	cmap, err := colormapFromPalette(pal, 1)
	if cmap != nil {
		t.Error("partial colormap returned")
	}
	if !errors.Is(err, ErrColormapBuild) {
		t.Fatalf("got %v, want ErrColormapBuild", err)
	}
	if !errors.Is(err, pix.ErrColormapFull) {
		t.Errorf("cause not wrapped: %v", err)
	}
	var cbe *ColormapBuildError
	if !errors.As(err, &cbe) || cbe.Index != 2 {
		t.Errorf("failing index: got %+v, want 2", cbe)
	}
}

func TestAttachColormap(t *testing.T) {
	dst, _ := pix.New(2, 2, 1)
	cmap, _ := pix.NewColormap(8)
	for i := 0; i < 3; i++ {
		_ = cmap.AddColor(pix.Color{R: uint8(i)})
	}

	err := attachColormap(dst, cmap)
	if !errors.Is(err, pix.ErrColormapTooLarge) {
		t.Fatalf("got %v, want ErrColormapTooLarge", err)
	}
	if errors.Is(err, ErrColormapBuild) {
		t.Errorf("attach failure reported as a build failure: %v", err)
	}
	if dst.Colormap() != nil {
		t.Error("colormap attached despite error")
	}
	if cmap.Len() != 0 {
		t.Error("rejected colormap was not closed")
	}

	ok, _ := pix.NewColormap(1)
	_ = ok.AddColor(pix.Color{})
	if err := attachColormap(dst, ok); err != nil {
		t.Fatalf("attachColormap failed: %v", err)
	}
	if dst.Colormap() != ok {
		t.Error("colormap not attached")
	}
}

func TestColormapFromPalette_DropsAlpha(t *testing.T) {
	pal := bitmap.Palette{{A: 10, R: 1, G: 2, B: 3}}
	cmap, err := colormapFromPalette(pal, 8)
	if err != nil {
		t.Fatalf("colormapFromPalette failed: %v", err)
	}
	if cmap.Len() != 1 || cmap.At(0) != (pix.Color{R: 1, G: 2, B: 3}) {
		t.Errorf("got %d entries, first %+v", cmap.Len(), cmap.At(0))
	}
}

func TestFormatMap(t *testing.T) {
	depths := []struct {
		format bitmap.PixelFormat
		depth  int
	}{
		{bitmap.FormatIndexed1, 1},
		{bitmap.FormatIndexed8, 8},
		{bitmap.FormatGray8, 8},
		{bitmap.FormatBgr24, 32},
		{bitmap.FormatBgra32, 32},
	}
	for _, tt := range depths {
		got, err := DepthFor(tt.format)
		if err != nil || got != tt.depth {
			t.Errorf("DepthFor(%v): got %d, %v; want %d", tt.format, got, err, tt.depth)
		}
	}

	formats := []struct {
		depth  int
		format bitmap.PixelFormat
	}{
		{1, bitmap.FormatIndexed1},
		{8, bitmap.FormatIndexed8},
		{16, bitmap.FormatGray16},
		{32, bitmap.FormatBgra32},
	}
	for _, tt := range formats {
		got, err := FormatFor(tt.depth)
		if err != nil || got != tt.format {
			t.Errorf("FormatFor(%d): got %v, %v; want %v", tt.depth, got, err, tt.format)
		}
	}

	if _, err := DepthFor(bitmap.FormatIndexed4); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DepthFor(Indexed4): got %v, want ErrUnsupportedFormat", err)
	}
	if _, err := FormatFor(24); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatFor(24): got %v, want ErrUnsupportedFormat", err)
	}
}

func TestIndexedRowBytes(t *testing.T) {
	tests := []struct {
		width, bpp, want int
	}{
		{10, 1, 2},
		{9, 1, 2},
		{8, 1, 1},
		{1, 1, 1},
		{10, 8, 10},
	}
	for _, tt := range tests {
		if got := IndexedRowBytes(tt.width, tt.bpp); got != tt.want {
			t.Errorf("IndexedRowBytes(%d, %d): got %d, want %d", tt.width, tt.bpp, got, tt.want)
		}
	}
}

func TestTranscode_BufferBounds(t *testing.T) {
	dst, _ := pix.New(4, 4, 32)
	short := bitmap.BackBuffer{Pix: make([]byte, 40), Stride: 16}

	if err := bgra32ToPix(short, dst, 4, 4, 2); !errors.Is(err, ErrBufferBounds) {
		t.Errorf("short source: got %v, want ErrBufferBounds", err)
	}

	narrow := bitmap.BackBuffer{Pix: make([]byte, 64), Stride: 8}
	if err := bgra32ToPix(narrow, dst, 4, 4, 2); !errors.Is(err, ErrBufferBounds) {
		t.Errorf("narrow stride: got %v, want ErrBufferBounds", err)
	}
}
