package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// SecretStore holds per-backend secrets, such as the Lambda authorizer
// token, in AWS Secrets Manager.
type SecretStore struct {
	client *secretsmanager.Client
}

func NewSecretStore(client *secretsmanager.Client) *SecretStore {
	return &SecretStore{client: client}
}

// SecretPath returns the secret name for a backend-scoped secret.
func SecretPath(backendID, branch, name string) string {
	return fmt.Sprintf("amplify/%s/%s/%s", backendID, branch, name)
}

// Get retrieves a secret value by path.
func (s *SecretStore) Get(ctx context.Context, secretPath string) (string, error) {
	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", secretPath, err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretPath)
	}
	return *result.SecretString, nil
}

// Put creates the secret, or updates its value if it already exists.
func (s *SecretStore) Put(ctx context.Context, secretPath, value string) error {
	_, err := s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(secretPath),
		SecretString: aws.String(value),
	})
	if err == nil {
		return nil
	}

	var exists *types.ResourceExistsException
	if !errors.As(err, &exists) {
		return fmt.Errorf("failed to create secret %s: %w", secretPath, err)
	}

	_, err = s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(secretPath),
		SecretString: aws.String(value),
	})
	if err != nil {
		return fmt.Errorf("failed to update secret %s: %w", secretPath, err)
	}
	return nil
}
