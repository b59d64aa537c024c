package convert

import (
	"encoding/binary"
	"fmt"

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/parallel"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// Each transcoder walks rows [0, height) in disjoint partitions. Row y starts
// at stride.Offset(y) in the byte buffer and at wpl.Offset(y) in the word
// buffer. Buffer sizes are checked once, before any worker starts.

// checkBytes verifies a byte buffer holds height rows of rowBytes.
func checkBytes(buf bitmap.BackBuffer, height, rowBytes int) error {
	if int(buf.Stride) < rowBytes {
		return fmt.Errorf("%w: stride %d bytes < row %d bytes", ErrBufferBounds, buf.Stride, rowBytes)
	}
	if need := buf.Stride.Offset(height-1) + rowBytes; len(buf.Pix) < need {
		return fmt.Errorf("%w: bitmap buffer %d bytes, need %d", ErrBufferBounds, len(buf.Pix), need)
	}
	return nil
}

// checkWords verifies a pix holds height rows of rowWords.
func checkWords(p *pix.Pix, height, rowWords int) error {
	wpl := p.WordsPerLine()
	if int(wpl) < rowWords {
		return fmt.Errorf("%w: stride %d words < row %d words", ErrBufferBounds, wpl, rowWords)
	}
	if need := wpl.Offset(height-1) + rowWords; len(p.Data()) < need {
		return fmt.Errorf("%w: pix buffer %d words, need %d", ErrBufferBounds, len(p.Data()), need)
	}
	return nil
}

// bgra32ToPix packs B,G,R,A bytes into RGBA words, alpha as-is.
func bgra32ToPix(src bitmap.BackBuffer, dst *pix.Pix, width, height, workers int) error {
	if err := checkBytes(src, height, 4*width); err != nil {
		return err
	}
	if err := checkWords(dst, height, width); err != nil {
		return err
	}

	srcBuf, srcStride := src.Pix, src.Stride
	dstBuf, dstStride := dst.Data(), dst.WordsPerLine()

	parallel.ForRows(height, workers, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			imgLine := srcBuf[srcStride.Offset(y):]
			pixLine := dstBuf[dstStride.Offset(y):]
			for x := 0; x < width; x++ {
				px := imgLine[4*x : 4*x+4]
				pix.SetDataFourBytes(pixLine, x, pix.ComposeRGBA(px[2], px[1], px[0], px[3]))
			}
		}
	})
	return nil
}

// bgr24ToPix packs B,G,R bytes into opaque RGBA words.
func bgr24ToPix(src bitmap.BackBuffer, dst *pix.Pix, width, height, workers int) error {
	if err := checkBytes(src, height, 3*width); err != nil {
		return err
	}
	if err := checkWords(dst, height, width); err != nil {
		return err
	}

	srcBuf, srcStride := src.Pix, src.Stride
	dstBuf, dstStride := dst.Data(), dst.WordsPerLine()

	parallel.ForRows(height, workers, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			imgLine := srcBuf[srcStride.Offset(y):]
			pixLine := dstBuf[dstStride.Offset(y):]
			for x := 0; x < width; x++ {
				px := imgLine[3*x : 3*x+3]
				pix.SetDataFourBytes(pixLine, x, pix.ComposeRGBA(px[2], px[1], px[0], 0xff))
			}
		}
	})
	return nil
}

// indexedToPix copies packed index bytes verbatim.
func indexedToPix(src bitmap.BackBuffer, dst *pix.Pix, width, height, bpp, workers int) error {
	rowBytes := IndexedRowBytes(width, bpp)
	if err := checkBytes(src, height, rowBytes); err != nil {
		return err
	}
	if err := checkWords(dst, height, (rowBytes+3)/4); err != nil {
		return err
	}

	srcBuf, srcStride := src.Pix, src.Stride
	dstBuf, dstStride := dst.Data(), dst.WordsPerLine()

	parallel.ForRows(height, workers, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			imgLine := srcBuf[srcStride.Offset(y):]
			pixLine := dstBuf[dstStride.Offset(y):]
			for x := 0; x < rowBytes; x++ {
				pix.SetDataByte(pixLine, x, imgLine[x])
			}
		}
	})
	return nil
}

// pixToBgra32 unpacks RGBA words into B,G,R,A bytes. The alpha byte is
// or-ed with alphaMask: 0xff forces opaque output, 0 keeps source alpha.
func pixToBgra32(src *pix.Pix, dst bitmap.BackBuffer, width, height int, alphaMask uint8, workers int) error {
	if err := checkWords(src, height, width); err != nil {
		return err
	}
	if err := checkBytes(dst, height, 4*width); err != nil {
		return err
	}

	srcBuf, srcStride := src.Data(), src.WordsPerLine()
	dstBuf, dstStride := dst.Pix, dst.Stride

	parallel.ForRows(height, workers, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			pixLine := srcBuf[srcStride.Offset(y):]
			imgLine := dstBuf[dstStride.Offset(y):]
			for x := 0; x < width; x++ {
				r, g, b, a := pix.ExtractRGBA(pix.GetDataFourBytes(pixLine, x))
				px := imgLine[4*x : 4*x+4]
				px[0] = b
				px[1] = g
				px[2] = r
				px[3] = alphaMask | a
			}
		}
	})
	return nil
}

// pixToGray16 copies 16-bit samples into little-endian words.
func pixToGray16(src *pix.Pix, dst bitmap.BackBuffer, width, height, workers int) error {
	if err := checkWords(src, height, (width+1)/2); err != nil {
		return err
	}
	if err := checkBytes(dst, height, 2*width); err != nil {
		return err
	}

	srcBuf, srcStride := src.Data(), src.WordsPerLine()
	dstBuf, dstStride := dst.Pix, dst.Stride

	parallel.ForRows(height, workers, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			pixLine := srcBuf[srcStride.Offset(y):]
			imgLine := dstBuf[dstStride.Offset(y):]
			for x := 0; x < width; x++ {
				binary.LittleEndian.PutUint16(imgLine[2*x:], pix.GetDataTwoBytes(pixLine, x))
			}
		}
	})
	return nil
}

// pixToIndexed copies packed index bytes verbatim.
func pixToIndexed(src *pix.Pix, dst bitmap.BackBuffer, width, height, bpp, workers int) error {
	rowBytes := IndexedRowBytes(width, bpp)
	if err := checkWords(src, height, (rowBytes+3)/4); err != nil {
		return err
	}
	if err := checkBytes(dst, height, rowBytes); err != nil {
		return err
	}

	srcBuf, srcStride := src.Data(), src.WordsPerLine()
	dstBuf, dstStride := dst.Pix, dst.Stride

	parallel.ForRows(height, workers, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			pixLine := srcBuf[srcStride.Offset(y):]
			imgLine := dstBuf[dstStride.Offset(y):]
			for x := 0; x < rowBytes; x++ {
				imgLine[x] = pix.GetDataByte(pixLine, x)
			}
		}
	})
	return nil
}
