package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

func ProvideAWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}

func ProvideCloudFormation(config aws.Config) *cloudformation.Client {
	return cloudformation.NewFromConfig(config)
}

func ProvideS3(config aws.Config) *s3.Client {
	return s3.NewFromConfig(config)
}

func ProvideSSM(config aws.Config) *ssm.Client {
	return ssm.NewFromConfig(config)
}

func ProvideSTS(config aws.Config) *sts.Client {
	return sts.NewFromConfig(config)
}

func ProvideDynamoDB(config aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(config)
}

func ProvideSecretsManager(config aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(config)
}
