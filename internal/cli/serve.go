package cli

import (
	"context"

	"github.com/ironsheep/pixbridge/internal/server"
)

// ServeCmd runs the MCP server until stdin closes or the process is
// interrupted.
type ServeCmd struct{}

func (c *ServeCmd) Run(ctx context.Context, env *Env) error {
	env.Logger.Info("starting MCP server", "version", server.Version,
		"workers", env.Config.Workers, "log_level", env.Config.LogLevel)
	return server.New(env.Config, env.Logger).Run(ctx)
}
