package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/di"
	"github.com/dbanksdesign/gen2/internal/outputs"
)

// OutputsCommand returns the outputs command for reading published backend outputs
func OutputsCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "outputs",
		Usage: "Print the published outputs for a backend",
		Description: `Reads the outputs a deployment published to Parameter Store and prints
them as JSON for client tooling.

Examples:
  # Print the sandbox outputs
  gen2 outputs --backend-id myapp

  # Print the outputs for a branch
  gen2 outputs --backend-id myapp --branch main`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "backend-id",
				Usage:    "Backend identifier",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Deployment branch (defaults to sandbox)",
				EnvVars: []string{"GEN2_BRANCH"},
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Tooling environment",
				EnvVars: []string{"ENV"},
				Value:   "dev",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)

			identifier, err := backend.NewIdentifier(c.String("backend-id"), c.String("branch"))
			if err != nil {
				return err
			}

			container, err := di.New(c.String("env"))
			if err != nil {
				return err
			}
			store := di.MustGet[*outputs.ParameterStore](container)

			values, err := store.Fetch(ctx, identifier)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return fmt.Errorf("no outputs published for backend %s", identifier)
			}

			encoded, err := json.MarshalIndent(values, "", "  ")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(os.Stdout, string(encoded))
			return err
		},
	}
}
