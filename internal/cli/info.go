package cli

import (
	"context"
	"encoding/json"

	"github.com/ironsheep/pixbridge/internal/imaging"
	"github.com/ironsheep/pixbridge/internal/pix"
)

// InfoCmd prints the metadata of an image file, or the Pix stored in an spix
// file, as indented JSON.
type InfoCmd struct {
	Input string `arg:"" help:"Image, .spix or .spix.zst file" type:"existingfile"`
}

func (c *InfoCmd) Run(ctx context.Context, env *Env) error {
	var v interface{}
	if pix.IsSPixPath(c.Input) {
		p, err := pix.ReadFile(c.Input)
		if err != nil {
			return err
		}
		defer p.Close()
		v = p.Describe()
	} else {
		info, err := imaging.LoadImageInfo(imaging.NewImageCache(), c.Input)
		if err != nil {
			return err
		}
		v = info
	}

	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
