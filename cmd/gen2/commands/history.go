package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/dbanksdesign/gen2/internal/dao/deploymentdao"
	"github.com/dbanksdesign/gen2/internal/di"
)

// HistoryCommand returns the history command for listing deployments
func HistoryCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded deployments",
		Description: `Lists the deployment history for a backend, or the latest deployment
of every backend on a branch when no backend id is given.

Examples:
  # All deployments of a backend's sandbox
  gen2 history --backend-id myapp

  # Latest deployment of every backend on main
  gen2 history --branch main`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend-id",
				Usage: "Backend identifier, omit to list latest deployments per backend",
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Deployment branch (defaults to sandbox)",
				EnvVars: []string{"GEN2_BRANCH"},
				Value:   "sandbox",
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Tooling environment (selects the deployments table)",
				EnvVars: []string{"ENV"},
				Value:   "dev",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)

			container, err := di.New(c.String("env"))
			if err != nil {
				return err
			}
			dao := di.MustGet[*deploymentdao.DAO](container)

			var records []deploymentdao.Record
			if backendID := c.String("backend-id"); backendID != "" {
				records, err = dao.Query(ctx, deploymentdao.NewPK(backendID, c.String("branch")))
			} else {
				records, err = dao.QueryLatest(ctx, c.String("branch"))
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("no deployments found")
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tOPERATION\tCREATED")
			for i := range records {
				record := &records[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					record.GetID(),
					record.Status,
					record.Operation,
					time.Unix(record.CreatedAt, 0).UTC().Format(time.RFC3339),
				)
			}
			return w.Flush()
		},
	}
}
