// Package convert moves raster images between the toolkit bitmap
// (package bitmap) and the OCR engine's Pix (package pix).
//
// # Directions
//
//	ToPix(bitmap)             Indexed1, Indexed8, Gray8 -> 1/8 bpp
//	                          Bgr24 -> 32 bpp (spp 3, opaque)
//	                          Bgra32 -> 32 bpp (spp 4, alpha as-is)
//	ToBitmap(pix, alpha)      1 -> Indexed1, 8 -> Indexed8
//	                          16 -> Gray16, 32 -> Bgra32
//
// Anything else fails with an *UnsupportedFormatError before a buffer is
// allocated or locked. Sample values are never altered: there is no color
// space conversion, resampling or dithering. The only choice a caller has is
// whether 32 bpp output keeps the source alpha (includeAlpha) or is forced
// opaque.
//
// # Palettes
//
// Indexed bitmaps carry their palette into a pix colormap; an entry that does
// not fit fails the conversion with a *ColormapBuildError. In the other
// direction a colormap that is larger than the destination palette, or
// missing altogether, is replaced by a gray ramp instead of failing. A 1 bpp
// pix without colormap gets a white/black palette, the engine's own
// interpretation of such images.
//
// # Concurrency
//
// Rows are transcoded in contiguous, disjoint partitions on a fixed-size
// worker pool; a call returns once every partition is done. The toolkit
// buffer is held under the bitmap's lock for the duration of the transcode.
// Output does not depend on the number of workers.
package convert
