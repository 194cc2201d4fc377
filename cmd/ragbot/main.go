// Command ragbot answers questions about a folder of documents.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/ragbot/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragbot/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetAppFactory(func(opts cli.Options) (cli.Application, error) {
		a, err := app.New(app.Options{
			ConfigPath: opts.ConfigPath,
			EnvFile:    opts.EnvFile,
			In:         opts.In,
			Out:        opts.Out,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	})
	cli.Execute(ctx)
}
