// Package imaging loads source images and prepares them for conversion.
//
// Files are decoded once into an ImageCache (PNG, JPEG, GIF, BMP, TIFF and
// WebP, with EXIF orientation applied) and copied into a bitmap.Bitmap by
// LoadBitmap. Crop and Preprocess reshape a decoded image before it is handed
// to the converter; the concrete image type they return decides which Pix
// depth the image ends up at.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based, with (0,0) at the
// top-left corner. For regions, (x1,y1) is inclusive and (x2,y2) exclusive.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions never
// modify their input and can be called concurrently.
package imaging
