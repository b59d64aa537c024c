package pix

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks spix files that are zstd compressed.
const CompressedExt = ".zst"

// WriteFile serializes p to path as spix, zstd compressed when path ends in
// ".zst".
func WriteFile(path string, p *Pix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, CompressedExt) {
		return WriteSPix(f, p)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if err := WriteSPix(enc, p); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadFile reads an spix file written by WriteFile.
func ReadFile(path string) (*Pix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, CompressedExt) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}
	return ReadSPix(r)
}

// IsSPixPath reports whether path names an spix file, compressed or not.
func IsSPixPath(path string) bool {
	return strings.HasSuffix(path, ".spix") || strings.HasSuffix(path, ".spix"+CompressedExt)
}
