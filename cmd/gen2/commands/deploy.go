package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"

	"github.com/dbanksdesign/gen2/internal/dao/deploymentdao"
	"github.com/dbanksdesign/gen2/internal/deployer"
	"github.com/dbanksdesign/gen2/internal/di"
	"github.com/dbanksdesign/gen2/internal/outputs"
	"github.com/dbanksdesign/gen2/internal/services"
)

// DeployCommand returns the deploy command for deploying a backend
func DeployCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Synthesize, validate, and deploy the backend",
		Description: `Synthesizes the backend, validates it against the template policy,
uploads the assets, runs the CloudFormation stack operation to completion,
records the deployment, and publishes the backend outputs.

Examples:
  # Deploy the sandbox backend
  gen2 deploy --bucket my-deployment-bucket

  # Deploy a branch
  gen2 deploy --branch main --bucket my-deployment-bucket`,
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
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Tooling environment (selects the deployments table)",
				EnvVars: []string{"ENV"},
				Value:   "dev",
			},
			&cli.StringFlag{
				Name:    "bucket",
				Usage:   "S3 bucket for deployment assets",
				EnvVars: []string{"DEPLOYMENT_BUCKET"},
			},
			&cli.StringSliceFlag{
				Name:    "param",
				Aliases: []string{"p"},
				Usage:   "CloudFormation parameter as key=value, repeatable",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)

			result, err := synthesize(ctx, synthOptions{
				configPath:  c.String("config"),
				branch:      c.String("branch"),
				checkSchema: true,
				checkPolicy: true,
			})
			if err != nil {
				return err
			}

			templateJSON, err := result.template.JSON()
			if err != nil {
				return err
			}

			container, err := di.New(c.String("env"),
				di.WithDeploymentBucket(c.String("bucket")),
			)
			if err != nil {
				return err
			}

			dep := di.MustGet[*deployer.Deployer](container)
			dao := di.MustGet[*deploymentdao.DAO](container)
			store := di.MustGet[*outputs.ParameterStore](container)
			accounts := di.MustGet[*services.AccountService](container)

			identifier := result.identifier
			stackName := identifier.StackName()
			hash := sha256.Sum256(templateJSON)

			accountID, err := accounts.AccountID(ctx)
			if err != nil {
				return err
			}

			overrides := map[string]string{}
			for _, raw := range c.StringSlice("param") {
				key, value, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("invalid parameter %q, expected key=value", raw)
				}
				overrides[key] = value
			}
			parameters := deployer.MergeParameters(result.config.Parameters, overrides)

			logger.Info().
				Str("backend", identifier.String()).
				Str("account_id", accountID).
				Msg("Deploying backend")

			sk := ksuid.New().String()
			record, err := dao.Create(ctx, deploymentdao.CreateInput{
				BackendID:    identifier.BackendID,
				Branch:       identifier.BranchName(),
				SK:           sk,
				StackName:    stackName,
				TemplateHash: hex.EncodeToString(hash[:]),
			})
			if err != nil {
				return err
			}

			prefix := fmt.Sprintf("%s/%s/%s", identifier.BackendID, identifier.BranchName(), sk)
			if err := dep.UploadAssets(ctx, prefix, templateJSON, result.resource.Definition.Schema); err != nil {
				return failDeployment(ctx, dao, record, err)
			}

			deployResult, err := dep.Deploy(ctx, stackName, string(templateJSON), parameters)
			if err != nil {
				return failDeployment(ctx, dao, record, err)
			}

			inProgress := deploymentdao.StatusInProgress
			if err := dao.UpdateStatus(ctx, deploymentdao.UpdateInput{
				PK:        record.PK,
				SK:        record.SK,
				Status:    &inProgress,
				Operation: &deployResult.Operation,
			}); err != nil {
				logger.Warn().Err(err).Msg("Failed to update deployment status")
			}

			if _, err := dep.Wait(ctx, stackName); err != nil {
				return failDeployment(ctx, dao, record, err)
			}

			stackOutputs, err := dep.StackOutputs(ctx, stackName)
			if err != nil {
				return failDeployment(ctx, dao, record, err)
			}
			if err := store.Publish(ctx, identifier, stackOutputs); err != nil {
				return failDeployment(ctx, dao, record, err)
			}

			success := deploymentdao.StatusSuccess
			update := deploymentdao.UpdateInput{
				PK:     record.PK,
				SK:     record.SK,
				Status: &success,
			}
			if endpoint, ok := stackOutputs["awsAppsyncApiEndpoint"]; ok {
				update.ApiEndpoint = &endpoint
			}
			if err := dao.UpdateStatus(ctx, update); err != nil {
				logger.Warn().Err(err).Msg("Failed to record deployment success")
			}

			logger.Info().
				Str("backend", identifier.String()).
				Str("stack_name", stackName).
				Str("operation", deployResult.Operation).
				Msg("Deployment completed")
			return nil
		},
	}
}

// failDeployment marks the deployment record FAILED and returns the cause.
// Recording failures is best effort; the original error always wins.
func failDeployment(ctx context.Context, dao *deploymentdao.DAO, record deploymentdao.Record, cause error) error {
	failed := deploymentdao.StatusFailed
	msg := cause.Error()

	if err := dao.UpdateStatus(ctx, deploymentdao.UpdateInput{
		PK:       record.PK,
		SK:       record.SK,
		Status:   &failed,
		ErrorMsg: &msg,
	}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to record deployment failure")
	}
	return cause
}
