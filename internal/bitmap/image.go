package bitmap

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// FromImage copies img into a new Bitmap.
//
// The format is chosen from the concrete image type:
//   - *image.Paletted with at most 2 colors -> FormatIndexed1
//   - *image.Paletted -> FormatIndexed8
//   - *image.Gray -> FormatGray8
//   - *image.Gray16 -> FormatGray16
//   - anything else -> FormatBgra32 (straight alpha)
//
// A dpi of 0 or less selects DefaultDPI.
func FromImage(img image.Image, dpi float64) (*Bitmap, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Paletted:
		return fromPaletted(src, dpi)

	case *image.Gray:
		bmp, err := New(w, h, dpi, dpi, FormatGray8, nil)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(bmp.buf[bmp.stride.Offset(y):], src.Pix[off:off+w])
		}
		return bmp, nil

	case *image.Gray16:
		bmp, err := New(w, h, dpi, dpi, FormatGray16, nil)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := bmp.buf[bmp.stride.Offset(y):]
			for x := 0; x < w; x++ {
				v := binary.BigEndian.Uint16(src.Pix[off+2*x:])
				binary.LittleEndian.PutUint16(row[2*x:], v)
			}
		}
		return bmp, nil
	}

	nrgba := imaging.Clone(img)
	bmp, err := New(w, h, dpi, dpi, FormatBgra32, nil)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		srcRow := nrgba.Pix[y*nrgba.Stride:]
		dstRow := bmp.buf[bmp.stride.Offset(y):]
		for x := 0; x < w; x++ {
			i := 4 * x
			dstRow[i+0] = srcRow[i+2] // B
			dstRow[i+1] = srcRow[i+1] // G
			dstRow[i+2] = srcRow[i+0] // R
			dstRow[i+3] = srcRow[i+3] // A
		}
	}
	return bmp, nil
}

func fromPaletted(src *image.Paletted, dpi float64) (*Bitmap, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pal := make(Palette, len(src.Palette))
	for i, c := range src.Palette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		pal[i] = Color{A: n.A, R: n.R, G: n.G, B: n.B}
	}

	format := FormatIndexed8
	if len(pal) <= 2 {
		format = FormatIndexed1
	}
	bmp, err := New(w, h, dpi, dpi, format, pal)
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := bmp.buf[bmp.stride.Offset(y):]
		if format == FormatIndexed8 {
			copy(row, src.Pix[off:off+w])
			continue
		}
		for x := 0; x < w; x++ {
			if src.Pix[off+x]&1 != 0 {
				row[x>>3] |= 0x80 >> uint(x&7)
			}
		}
	}
	return bmp, nil
}

// Image copies the bitmap into a standard library image.
//
// Indexed formats become *image.Paletted, FormatBlackWhite and FormatGray8
// become *image.Gray, FormatGray16 becomes *image.Gray16 and the color
// formats become *image.NRGBA. FormatBgr565 and FormatRgba64 are not
// supported.
func (b *Bitmap) Image() (image.Image, error) {
	buf := b.Lock()
	defer b.Unlock()

	rect := image.Rect(0, 0, b.width, b.height)

	switch {
	case b.format.IsIndexed():
		pal := make(color.Palette, len(b.palette))
		for i, c := range b.palette {
			pal[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
		}
		dst := image.NewPaletted(rect, pal)
		bpp := b.format.BitsPerPixel()
		for y := 0; y < b.height; y++ {
			row := buf.Pix[buf.Stride.Offset(y):]
			for x := 0; x < b.width; x++ {
				dst.Pix[y*dst.Stride+x] = unpackIndex(row, x, bpp)
			}
		}
		return dst, nil

	case b.format == FormatBlackWhite:
		dst := image.NewGray(rect)
		for y := 0; y < b.height; y++ {
			row := buf.Pix[buf.Stride.Offset(y):]
			for x := 0; x < b.width; x++ {
				if unpackIndex(row, x, 1) != 0 {
					dst.Pix[y*dst.Stride+x] = 0xff
				}
			}
		}
		return dst, nil

	case b.format == FormatGray8:
		dst := image.NewGray(rect)
		for y := 0; y < b.height; y++ {
			copy(dst.Pix[y*dst.Stride:], buf.Pix[buf.Stride.Offset(y):buf.Stride.Offset(y)+b.width])
		}
		return dst, nil

	case b.format == FormatGray16:
		dst := image.NewGray16(rect)
		for y := 0; y < b.height; y++ {
			row := buf.Pix[buf.Stride.Offset(y):]
			for x := 0; x < b.width; x++ {
				v := binary.LittleEndian.Uint16(row[2*x:])
				binary.BigEndian.PutUint16(dst.Pix[y*dst.Stride+2*x:], v)
			}
		}
		return dst, nil

	case b.format == FormatBgr24, b.format == FormatBgra32:
		dst := image.NewNRGBA(rect)
		bytesPP := b.format.BitsPerPixel() / 8
		for y := 0; y < b.height; y++ {
			row := buf.Pix[buf.Stride.Offset(y):]
			out := dst.Pix[y*dst.Stride:]
			for x := 0; x < b.width; x++ {
				s := row[x*bytesPP:]
				d := out[4*x:]
				d[0], d[1], d[2] = s[2], s[1], s[0]
				if bytesPP == 4 {
					d[3] = s[3]
				} else {
					d[3] = 0xff
				}
			}
		}
		return dst, nil
	}

	return nil, fmt.Errorf("%w: cannot export %v", ErrInvalidFormat, b.format)
}

// unpackIndex reads the x-th sample of a row packed most significant first.
func unpackIndex(row []byte, x, bpp int) uint8 {
	switch bpp {
	case 8:
		return row[x]
	case 4:
		return (row[x>>1] >> (4 - 4*uint(x&1))) & 0x0f
	case 2:
		return (row[x>>2] >> (6 - 2*uint(x&3))) & 0x03
	default:
		return (row[x>>3] >> (7 - uint(x&7))) & 0x01
	}
}
