// Package pix implements the raster buffer used by the Tesseract/Leptonica
// engine, the "Pix".
//
// A Pix stores its samples in 32-bit words. Every scanline starts on a word
// boundary, so the distance between two rows is measured in words (see Words),
// never in bytes. Samples narrower than a word are packed most significant
// first inside each word, which matches the in-memory layout Leptonica uses on
// every platform.
//
// # Depths
//
// New accepts depths 1, 2, 4, 8, 16, 24 and 32. A 32 bpp Pix holds one packed
// RGBA word per pixel:
//
//	R<<24 | G<<16 | B<<8 | A
//
// Images up to 8 bpp may carry a Colormap whose capacity is bound to the depth
// (2^depth entries).
//
// # Ownership
//
// A Pix is owned by whoever created it. Close releases the buffer and the
// attached colormap; a closed Pix reports zero dimensions and must not be used
// again.
//
// # Serialization
//
// WriteSPix and ReadSPix store a Pix in the uncompressed "spix" layout: a
// little-endian header (w, h, d, wpl, ncolors), the colormap as RGBA bytes and
// the raw raster words.
package pix
