package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/convert"
)

// ImageCache provides thread-safe caching of decoded source images so that a
// file used by several tool calls is read from disk once.
//
// The cache stores decoded image.Image values keyed by their file path. Images
// are decoded with EXIF auto-orientation applied, so a rotated phone photo
// reaches the converter upright.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	bmp, err := imaging.LoadBitmap(cache, "/path/to/scan.png", 300)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := convert.ToPix(bmp)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The concrete type
// of the returned image is whatever the decoder produced; palette PNGs and
// GIFs stay *image.Paletted and grayscale files stay *image.Gray, which keeps
// them on the indexed and gray conversion paths.
//
// The image is cached using the exact path string provided. Different paths to
// the same file result in separate cache entries.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file and the way it would
// enter the converter.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the file format guessed from the extension: "png", "jpeg",
	// "gif", "bmp", "tiff", "webp" or "unknown".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// PixelFormat is the bitmap format the image decodes into.
	PixelFormat string `json:"pixel_format"`

	// PixDepth is the depth of the Pix the bitmap converts to, or 0 when the
	// bitmap format has no Pix equivalent.
	PixDepth int `json:"pix_depth"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns its metadata.
//
// # Color Depth Detection
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	pf := PixelFormatOf(img)
	depth, err := convert.DepthFor(pf)
	if err != nil {
		depth = 0
	}

	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        FormatFromExt(path),
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		PixelFormat:   pf.String(),
		PixDepth:      depth,
		FileSizeBytes: stat.Size(),
	}, nil
}

// FormatFromExt maps a file extension to a format name.
func FormatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}

// PixelFormatOf reports the bitmap format bitmap.FromImage picks for img.
func PixelFormatOf(img image.Image) bitmap.PixelFormat {
	switch src := img.(type) {
	case *image.Paletted:
		if len(src.Palette) <= 2 {
			return bitmap.FormatIndexed1
		}
		return bitmap.FormatIndexed8
	case *image.Gray:
		return bitmap.FormatGray8
	case *image.Gray16:
		return bitmap.FormatGray16
	}
	return bitmap.FormatBgra32
}

// LoadBitmap loads path through the cache and copies it into a new Bitmap
// with the given resolution (0 selects bitmap.DefaultDPI).
func LoadBitmap(cache *ImageCache, path string, dpi float64) (*bitmap.Bitmap, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	bmp, err := bitmap.FromImage(img, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to build bitmap: %w", err)
	}
	return bmp, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
