package di

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/dbanksdesign/gen2/internal/dao/deploymentdao"
	"github.com/dbanksdesign/gen2/internal/deployer"
	errs "github.com/dbanksdesign/gen2/internal/errors"
	"github.com/dbanksdesign/gen2/internal/outputs"
	"github.com/dbanksdesign/gen2/internal/policy"
	"github.com/dbanksdesign/gen2/internal/services"
)

func ProvideDeployer(cfClient *cloudformation.Client, s3Client *s3.Client, bucket DeploymentBucket) (*deployer.Deployer, error) {
	name := string(bucket)
	if name == "" {
		name = os.Getenv("DEPLOYMENT_BUCKET")
	}
	if name == "" {
		return nil, errs.ErrDeploymentBucketRequired
	}
	return deployer.New(cfClient, s3Client, name), nil
}

func ProvideDeploymentDAO(client *dynamodb.Client, table DeploymentsTable, env string) *deploymentdao.DAO {
	name := string(table)
	if name == "" {
		name = os.Getenv("DEPLOYMENTS_TABLE")
	}
	if name == "" {
		name = fmt.Sprintf("gen2-deployments-%s", env)
	}
	return deploymentdao.New(client, name)
}

func ProvideParameterStore(client *ssm.Client) *outputs.ParameterStore {
	return outputs.NewParameterStore(client)
}

func ProvidePolicyValidator() (*policy.Validator, error) {
	return policy.NewValidator()
}

func ProvideAccountService(client *sts.Client) *services.AccountService {
	return services.NewAccountService(client)
}

func ProvideSecretStore(client *secretsmanager.Client) *services.SecretStore {
	return services.NewSecretStore(client)
}
