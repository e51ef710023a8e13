package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dbanksdesign/gen2/cmd/gen2/commands"
	"github.com/dbanksdesign/gen2/internal/di"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "gen2",
		Usage: "Backend definition and deployment toolkit",
		Description: `Defines a backend from a gen2.yaml project file, synthesizes it to a
CloudFormation template, and deploys it.

This tool provides commands for:
  - Synthesizing and validating backend templates
  - Deploying backends and recording deployment history
  - Reading published backend outputs
  - Managing backend-scoped secrets`,
		Commands: []*cli.Command{
			commands.SynthCommand(&logger),
			commands.DeployCommand(&logger),
			commands.OutputsCommand(&logger),
			commands.HistoryCommand(&logger),
			commands.SecretCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
