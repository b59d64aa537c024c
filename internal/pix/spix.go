package pix

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrBadSPix is returned when a stream is not a valid spix image.
var ErrBadSPix = errors.New("invalid spix data")

var spixMagic = [4]byte{'s', 'p', 'i', 'x'}

// spixHeader follows the magic bytes.
type spixHeader struct {
	Width   uint32
	Height  uint32
	Depth   uint32
	WPL     uint32
	NColors uint32
	SPP     uint32
}

// WriteSPix serializes p to w.
//
// Resolution is not part of the format.
func WriteSPix(w io.Writer, p *Pix) error {
	if p == nil || p.Closed() {
		return fmt.Errorf("%w: nil or closed pix", ErrBadSPix)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(spixMagic[:]); err != nil {
		return fmt.Errorf("failed to write spix magic: %w", err)
	}

	ncolors := 0
	if p.cmap != nil {
		ncolors = p.cmap.Len()
	}
	hdr := spixHeader{
		Width:   uint32(p.width),
		Height:  uint32(p.height),
		Depth:   uint32(p.depth),
		WPL:     uint32(p.wpl),
		NColors: uint32(ncolors),
		SPP:     uint32(p.spp),
	}
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("failed to write spix header: %w", err)
	}

	for i := 0; i < ncolors; i++ {
		c := p.cmap.At(i)
		if _, err := bw.Write([]byte{c.R, c.G, c.B, 0xff}); err != nil {
			return fmt.Errorf("failed to write colormap entry %d: %w", i, err)
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(4*len(p.data))); err != nil {
		return fmt.Errorf("failed to write raster size: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, p.data); err != nil {
		return fmt.Errorf("failed to write raster: %w", err)
	}

	return bw.Flush()
}

// ReadSPix deserializes a Pix written by WriteSPix.
func ReadSPix(r io.Reader) (*Pix, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read spix magic: %w", err)
	}
	if magic != spixMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadSPix, magic[:])
	}

	var hdr spixHeader
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to read spix header: %w", err)
	}

	wpl, words, err := rasterSize(int(hdr.Width), int(hdr.Height), int(hdr.Depth))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSPix, err)
	}
	if uint32(wpl) != hdr.WPL {
		return nil, fmt.Errorf("%w: wpl %d, want %d", ErrBadSPix, hdr.WPL, wpl)
	}
	if hdr.Depth != 32 && int(hdr.SPP) != defaultSamplesPerPixel(int(hdr.Depth)) {
		return nil, fmt.Errorf("%w: %d samples per pixel at depth %d", ErrBadSPix, hdr.SPP, hdr.Depth)
	}

	var cmap *Colormap
	if hdr.NColors > 0 {
		cmap, err = NewColormap(int(hdr.Depth))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSPix, err)
		}
		if int(hdr.NColors) > cmap.Capacity() {
			return nil, fmt.Errorf("%w: %d colors at depth %d", ErrBadSPix, hdr.NColors, hdr.Depth)
		}
		entry := make([]byte, 4)
		for i := 0; i < int(hdr.NColors); i++ {
			if _, err := io.ReadFull(br, entry); err != nil {
				return nil, fmt.Errorf("failed to read colormap entry %d: %w", i, err)
			}
			// capacity was checked above
			_ = cmap.AddColor(Color{R: entry[0], G: entry[1], B: entry[2]})
		}
	}

	var nbytes uint32
	if err := binary.Read(br, binary.LittleEndian, &nbytes); err != nil {
		return nil, fmt.Errorf("failed to read raster size: %w", err)
	}
	if uint64(nbytes) != 4*uint64(words) {
		return nil, fmt.Errorf("%w: raster size %d, want %d", ErrBadSPix, nbytes, 4*uint64(words))
	}

	p, err := New(int(hdr.Width), int(hdr.Height), int(hdr.Depth))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSPix, err)
	}
	if hdr.Depth == 32 {
		if err := p.SetSamplesPerPixel(int(hdr.SPP)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSPix, err)
		}
	}
	p.cmap = cmap
	if err := binary.Read(br, binary.LittleEndian, p.data); err != nil {
		return nil, fmt.Errorf("failed to read raster: %w", err)
	}

	return p, nil
}
