package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/di"
	"github.com/dbanksdesign/gen2/internal/services"
)

// SecretCommand returns the secret command for managing backend-scoped secrets
func SecretCommand(logger *zerolog.Logger) *cli.Command {
	flags := []cli.Flag{
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
	}

	return &cli.Command{
		Name:  "secret",
		Usage: "Manage backend-scoped secrets",
		Description: `Reads and writes secrets scoped to a backend and branch, such as the
Lambda authorizer token.

Examples:
  # Set the authorizer token for the sandbox
  gen2 secret set --backend-id myapp authorizer-token s3cret

  # Read it back
  gen2 secret get --backend-id myapp authorizer-token`,
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set a secret value",
				ArgsUsage: "<name> <value>",
				Flags:     flags,
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("expected <name> <value> arguments")
					}
					ctx := logger.WithContext(c.Context)

					identifier, err := backend.NewIdentifier(c.String("backend-id"), c.String("branch"))
					if err != nil {
						return err
					}

					container, err := di.New(c.String("env"))
					if err != nil {
						return err
					}
					store := di.MustGet[*services.SecretStore](container)

					path := services.SecretPath(identifier.BackendID, identifier.BranchName(), c.Args().Get(0))
					if err := store.Put(ctx, path, c.Args().Get(1)); err != nil {
						return err
					}

					logger.Info().Str("secret", path).Msg("Secret updated")
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "Print a secret value",
				ArgsUsage: "<name>",
				Flags:     flags,
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected <name> argument")
					}
					ctx := logger.WithContext(c.Context)

					identifier, err := backend.NewIdentifier(c.String("backend-id"), c.String("branch"))
					if err != nil {
						return err
					}

					container, err := di.New(c.String("env"))
					if err != nil {
						return err
					}
					store := di.MustGet[*services.SecretStore](container)

					path := services.SecretPath(identifier.BackendID, identifier.BranchName(), c.Args().Get(0))
					value, err := store.Get(ctx, path)
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(os.Stdout, value)
					return err
				},
			},
		},
	}
}
