package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createGradientImage creates an image whose red, green and blue channels
// all rise from 0 at the left edge to 255 at the right edge.
func createGradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func TestPreprocess_None(t *testing.T) {
	img := createGradientImage(8, 2)
	for _, mode := range []string{"", PreprocessNone} {
		got, err := Preprocess(img, mode, 0)
		if err != nil {
			t.Fatalf("Preprocess(%q) failed: %v", mode, err)
		}
		if got != image.Image(img) {
			t.Errorf("Preprocess(%q) should return the input", mode)
		}
	}
}

func TestPreprocess_Gray(t *testing.T) {
	img := createGradientImage(16, 4)

	out, err := Preprocess(img, PreprocessGray, 0)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	gray, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("got %T, want *image.Gray", out)
	}
	if gray.Bounds().Dx() != 16 || gray.Bounds().Dy() != 4 {
		t.Errorf("dimensions: got %v", gray.Bounds())
	}
	if PixelFormatOf(gray).String() != "Gray8" {
		t.Errorf("gray output should take the Gray8 path")
	}
	if gray.GrayAt(0, 0).Y != 0 || gray.GrayAt(15, 3).Y != 255 {
		t.Errorf("endpoints: got %d and %d, want 0 and 255", gray.GrayAt(0, 0).Y, gray.GrayAt(15, 3).Y)
	}
}

func TestPreprocess_Binarize(t *testing.T) {
	img := createGradientImage(256, 2)

	tests := []struct {
		threshold uint8
		firstSet  int
	}{
		{0, DefaultThreshold},
		{200, 200},
	}
	for _, tt := range tests {
		out, err := Preprocess(img, PreprocessBinarize, tt.threshold)
		if err != nil {
			t.Fatalf("Preprocess failed: %v", err)
		}
		pal, ok := out.(*image.Paletted)
		if !ok {
			t.Fatalf("got %T, want *image.Paletted", out)
		}
		if len(pal.Palette) != 2 {
			t.Fatalf("palette: got %d entries, want 2", len(pal.Palette))
		}
		if PixelFormatOf(pal).String() != "Indexed1" {
			t.Errorf("binarized output should take the Indexed1 path")
		}
		for x := 0; x < 256; x++ {
			// luminance weights may land one below an exact gray level
			if x == tt.firstSet || x == tt.firstSet+1 {
				continue
			}
			want := uint8(0)
			if x >= tt.firstSet {
				want = 1
			}
			if got := pal.ColorIndexAt(x, 1); got != want {
				t.Fatalf("threshold %d, x=%d: got index %d, want %d", tt.threshold, x, got, want)
			}
		}
	}
}

func TestPreprocess_Sharpen(t *testing.T) {
	img := createGradientImage(8, 8)
	out, err := Preprocess(img, PreprocessSharpen, 0)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Errorf("dimensions: got %v", out.Bounds())
	}
}

func TestPreprocess_Unknown(t *testing.T) {
	if _, err := Preprocess(createGradientImage(4, 4), "posterize", 0); err == nil {
		t.Error("Preprocess should fail for an unknown mode")
	}
	if ValidPreprocess("posterize") {
		t.Error("ValidPreprocess accepted an unknown mode")
	}
	if !ValidPreprocess(PreprocessBinarize) {
		t.Error("ValidPreprocess rejected binarize")
	}
}
