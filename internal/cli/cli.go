package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/pixbridge/internal/config"
	"github.com/ironsheep/pixbridge/internal/convert"
	"github.com/ironsheep/pixbridge/internal/imaging"
)

// CLI is the pixbridge command line grammar.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Print version information and quit" short:"v"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the MCP server on stdin/stdout (default)"`
	Convert ConvertCmd `cmd:"" help:"Convert between image files and spix Pix files"`
	Info    InfoCmd    `cmd:"" help:"Describe an image file or an spix file as JSON"`
	Ocr     OcrCmd     `cmd:"" help:"Recognize text in an image or spix file"`
}

// Globals are the flags shared by every command. Unset flags fall back to
// the configuration file and the environment.
type Globals struct {
	Config   string `help:"YAML configuration file" short:"c" env:"PIXBRIDGE_CONFIG"`
	LogLevel string `help:"Log level: debug, info, warn or error" name:"log-level"`
	Workers  *int   `help:"Transcode goroutines, 0 for one per CPU"`
}

// Env is what commands run with once the configuration is resolved.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Conv   *convert.Converter
	Stdout io.Writer
}

// New builds the parser for c.
func New(c *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("pixbridge"),
		kong.Description("Convert images to and from the Tesseract Pix format, and serve the conversion over MCP."),
		kong.UsageOnError(),
	}, options...)
	return kong.New(c, options...)
}

// Env loads the configuration, applies the global flags and builds the
// logger and converter. Logs go to stderr since stdout may carry MCP.
func (g *Globals) Env(stdout, stderr io.Writer) (*Env, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.Workers != nil {
		cfg.Workers = *g.Workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	return &Env{
		Config: cfg,
		Logger: logger,
		Conv:   convert.New(convert.WithWorkers(cfg.Workers), convert.WithLogger(logger)),
		Stdout: stdout,
	}, nil
}

// Run executes the selected command.
func Run(ctx context.Context, kctx *kong.Context, env *Env) error {
	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(env)
}

// PixFlags control how a decoded image becomes a Pix.
type PixFlags struct {
	Preprocess string  `help:"Preprocessing before conversion: none, gray, binarize or sharpen"`
	Threshold  int     `help:"Binarization level 1-255 for --preprocess=binarize"`
	DPI        float64 `help:"Resolution assigned to the image in pixels per inch" name:"dpi"`
}

func (f *PixFlags) validate() error {
	if !imaging.ValidPreprocess(f.Preprocess) {
		return fmt.Errorf("unknown preprocess mode %q", f.Preprocess)
	}
	if f.Threshold < 0 || f.Threshold > 255 {
		return fmt.Errorf("invalid threshold: %d", f.Threshold)
	}
	if f.DPI < 0 {
		return fmt.Errorf("invalid dpi: %v", f.DPI)
	}
	return nil
}

// resolve fills the unset flags from cfg.
func (f PixFlags) resolve(cfg *config.Config) PixFlags {
	if f.Preprocess == "" {
		f.Preprocess = cfg.Preprocess
	}
	if f.Threshold == 0 {
		f.Threshold = cfg.Threshold
	}
	if f.DPI == 0 {
		f.DPI = cfg.DPI
	}
	return f
}
