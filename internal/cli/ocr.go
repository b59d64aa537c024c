package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/pixbridge/internal/imaging"
	"github.com/ironsheep/pixbridge/internal/ocr"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// OcrCmd converts an image to a Pix and runs Tesseract on it.
type OcrCmd struct {
	Input string `arg:"" help:"Image, .spix or .spix.zst file" type:"existingfile"`

	PixFlags

	Language      string  `help:"Tesseract language code, e.g. eng or deu" short:"l"`
	Region        string  `help:"Only recognize inside x1,y1,x2,y2 (pixels, x2/y2 exclusive)"`
	Detect        bool    `help:"Report block-level text regions instead of text"`
	MinConfidence float64 `help:"Minimum confidence 0.0-1.0 for --detect" default:"0.5"`
	JSON          bool    `help:"Print the full result as JSON" name:"json"`

	region *imaging.Region
}

func (c *OcrCmd) Validate(kctx *kong.Context) error {
	if c.Region != "" {
		r, err := parseRegion(c.Region)
		if err != nil {
			return err
		}
		if c.Detect {
			return fmt.Errorf("--region and --detect cannot be combined")
		}
		c.region = &r
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("invalid min confidence: %v", c.MinConfidence)
	}
	return c.PixFlags.validate()
}

func (c *OcrCmd) Run(ctx context.Context, env *Env) error {
	flags := c.PixFlags.resolve(env.Config)
	opts := ocr.Options{
		Language:   c.Language,
		Preprocess: flags.Preprocess,
		Threshold:  uint8(flags.Threshold),
		DPI:        flags.DPI,
		Converter:  env.Conv,
	}
	if opts.Language == "" {
		opts.Language = env.Config.Language
	}

	img, err := loadImage(env, c.Input)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.Detect {
		p, err := ocr.PreparePix(img, opts)
		if err != nil {
			return err
		}
		defer p.Close()
		result, err := ocr.DetectTextRegions(p, c.MinConfidence, opts)
		if err != nil {
			return err
		}
		return c.print(env, result, "")
	}

	var result *ocr.OCRResult
	if c.region != nil {
		result, err = ocr.ExtractTextFromRegion(img, *c.region, opts)
	} else {
		result, err = ocr.ExtractTextFromImage(img, opts)
	}
	if err != nil {
		return err
	}
	env.Logger.Debug("recognized text", "input", c.Input, "words", len(result.Regions),
		"depth", result.Pix.Depth)
	return c.print(env, result, result.FullText)
}

func (c *OcrCmd) print(env *Env, v interface{}, text string) error {
	if c.JSON || text == "" {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(env.Stdout, strings.TrimRight(text, "\n"))
	return err
}

// loadImage decodes an image file, or renders an spix file back to an
// opaque image.
func loadImage(env *Env, path string) (image.Image, error) {
	if !pix.IsSPixPath(path) {
		return imaging.NewImageCache().Load(path)
	}

	p, err := pix.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	bm, err := env.Conv.ToBitmap(p, false)
	if err != nil {
		return nil, fmt.Errorf("could not convert %q: %w", path, err)
	}
	return bm.Image()
}

func parseRegion(s string) (imaging.Region, error) {
	var r imaging.Region
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X1, &r.Y1, &r.X2, &r.Y2)
	if err != nil || n != 4 {
		return imaging.Region{}, fmt.Errorf("invalid region %q, should be x1,y1,x2,y2", s)
	}
	if r.X2 <= r.X1 || r.Y2 <= r.Y1 {
		return imaging.Region{}, fmt.Errorf("empty region %q", s)
	}
	return r, nil
}
