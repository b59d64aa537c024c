package cli

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ironsheep/pixbridge/internal/bitmap"
	"github.com/ironsheep/pixbridge/internal/imaging"
	"github.com/ironsheep/pixbridge/internal/pix"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// ConvertCmd converts an image file to a Pix and writes it either as spix or
// converted back into an image file.
type ConvertCmd struct {
	Input  string `arg:"" help:"Source image, .spix or .spix.zst file" type:"existingfile"`
	Output string `arg:"" help:"Destination .png, .bmp, .tif, .tiff, .gif, .spix or .spix.zst file"`

	PixFlags

	IncludeAlpha *bool `help:"Keep the alpha channel of 32 bpp Pix when writing an image" negatable:""`
}

func (c *ConvertCmd) Validate(kctx *kong.Context) error {
	if !pix.IsSPixPath(c.Output) {
		if _, err := outputFormat(c.Output); err != nil {
			return err
		}
	}
	if pix.IsSPixPath(c.Input) && c.Preprocess != "" && c.Preprocess != imaging.PreprocessNone {
		return fmt.Errorf("cannot preprocess spix input %q", c.Input)
	}
	return c.PixFlags.validate()
}

func (c *ConvertCmd) Run(ctx context.Context, env *Env) error {
	logger := env.Logger.With("input", c.Input, "output", c.Output)

	p, source, err := loadPix(env, c.Input, c.PixFlags)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	info := p.Describe()
	logger.Info("converted to pix", "source", source, "depth", info.Depth,
		"spp", info.SamplesPerPixel, "colormap", info.ColormapSize)

	if pix.IsSPixPath(c.Output) {
		if err := pix.WriteFile(c.Output, p); err != nil {
			return fmt.Errorf("could not write %q: %w", c.Output, err)
		}
		return nil
	}

	includeAlpha := env.Config.IncludeAlpha
	if c.IncludeAlpha != nil {
		includeAlpha = *c.IncludeAlpha
	}
	out, err := env.Conv.ToBitmap(p, includeAlpha)
	if err != nil {
		return fmt.Errorf("could not convert pix: %w", err)
	}
	img, err := out.Image()
	if err != nil {
		return err
	}
	logger.Info("converted to bitmap", "format", out.Format(), "include_alpha", includeAlpha)

	return save(img, c.Output)
}

// loadPix reads an spix file directly or decodes, preprocesses and converts
// an image file. It also reports what the Pix was built from.
func loadPix(env *Env, path string, flags PixFlags) (*pix.Pix, string, error) {
	if pix.IsSPixPath(path) {
		p, err := pix.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		return p, "spix", nil
	}

	flags = flags.resolve(env.Config)
	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return nil, "", err
	}
	img, err = imaging.Preprocess(img, flags.Preprocess, uint8(flags.Threshold))
	if err != nil {
		return nil, "", err
	}
	bm, err := bitmap.FromImage(img, flags.DPI)
	if err != nil {
		return nil, "", fmt.Errorf("could not build bitmap: %w", err)
	}
	p, err := env.Conv.ToPix(bm)
	if err != nil {
		return nil, "", fmt.Errorf("could not convert %q: %w", path, err)
	}
	return p, bm.Format().String(), nil
}

func outputFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	case ".gif":
		return "gif", nil
	default:
		return "", fmt.Errorf("unsupported output format %q", ext)
	}
}

// save encodes img next to path and renames it into place once complete.
func save(img image.Image, path string) (err error) {
	format, err := outputFormat(path)
	if err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	outFile, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", name, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", name, defErr)
		}
		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
				slog.Error("could not remove temporary destination", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	switch format {
	case "png":
		if err = pngEncoder.Encode(outFile, img); err != nil {
			return fmt.Errorf("could not encode PNG destination %q: %w", name, err)
		}
	case "bmp":
		if err = bmp.Encode(outFile, img); err != nil {
			return fmt.Errorf("could not encode BMP destination %q: %w", name, err)
		}
	case "tiff":
		if err = tiff.Encode(outFile, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF destination %q: %w", name, err)
		}
	case "gif":
		if err = gif.Encode(outFile, img, nil); err != nil {
			return fmt.Errorf("could not encode GIF destination %q: %w", name, err)
		}
	}

	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush destination %q: %w", name, err)
	}
	canRename = true
	return nil
}
