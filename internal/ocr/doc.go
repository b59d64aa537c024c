// Package ocr runs Tesseract (via gosseract/v2) on images that have been
// moved into the engine's Pix representation.
//
// An image reaches Tesseract in three steps:
//
//  1. imaging.Preprocess optionally turns it gray, binarizes or sharpens it
//  2. bitmap.FromImage and convert.ToPix build the Pix at the requested DPI
//  3. the Pix is rendered back through convert.ToBitmap into PNG bytes
//
// The preprocess mode decides the Pix depth: "binarize" gives 1 bpp, "gray"
// 8 bpp, and color sources 32 bpp.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// GetOCRInfo reports the linked version and installed languages.
//
// # Error Handling
//
// If bounding box extraction fails, ExtractText still returns the extracted
// text with an empty Regions slice.
package ocr
