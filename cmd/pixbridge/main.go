package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/pixbridge/internal/cli"
	"github.com/ironsheep/pixbridge/internal/convert"
	"github.com/ironsheep/pixbridge/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	server.Version = Version

	var c cli.CLI
	parser, err := cli.New(&c, kong.Vars{
		"version": fmt.Sprintf("pixbridge %s (built %s, commit %s)", Version, BuildTime, GitCommit),
	})
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	// stdout carries MCP, so logs always go to stderr
	env, err := c.Env(os.Stdout, os.Stderr)
	kctx.FatalIfErrorf(err)
	convert.SetLogger(env.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, kctx, env); err != nil {
		env.Logger.Error("command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}
