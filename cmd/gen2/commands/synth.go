package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// SynthCommand returns the synth command for rendering a backend template
func SynthCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "synth",
		Usage: "Synthesize the backend to a CloudFormation template",
		Description: `Loads the project definition, resolves the construct factories, and
renders the resulting CloudFormation template.

Examples:
  # Render the template as JSON to stdout
  gen2 synth

  # Render YAML to a file for a specific branch
  gen2 synth --branch main --format yaml --out template.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the project config file",
				Value:   "gen2.yaml",
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Deployment branch (overrides config, defaults to sandbox)",
				EnvVars: []string{"GEN2_BRANCH"},
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (json or yaml)",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file, - for stdout",
				Value:   "-",
			},
			&cli.BoolFlag{
				Name:  "skip-schema-check",
				Usage: "Skip GraphQL schema validation",
			},
			&cli.BoolFlag{
				Name:  "skip-policy-check",
				Usage: "Skip template policy validation",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)

			result, err := synthesize(ctx, synthOptions{
				configPath:  c.String("config"),
				branch:      c.String("branch"),
				checkSchema: !c.Bool("skip-schema-check"),
				checkPolicy: !c.Bool("skip-policy-check"),
			})
			if err != nil {
				return err
			}

			var rendered []byte
			switch c.String("format") {
			case "json":
				rendered, err = result.template.JSON()
			case "yaml":
				rendered, err = result.template.YAML()
			default:
				return fmt.Errorf("unsupported format: %s", c.String("format"))
			}
			if err != nil {
				return err
			}

			if out := c.String("out"); out != "-" {
				if err := os.WriteFile(out, rendered, 0o644); err != nil {
					return fmt.Errorf("failed to write template: %w", err)
				}
				logger.Info().
					Str("backend", result.identifier.String()).
					Str("out", out).
					Msg("Template written")
				return nil
			}

			_, err = fmt.Fprintln(os.Stdout, string(rendered))
			return err
		},
	}
}
