// Package services wraps the AWS service calls the CLI makes outside of
// stack operations.
package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AccountService resolves the identity of the deploying account.
type AccountService struct {
	client *sts.Client
}

func NewAccountService(client *sts.Client) *AccountService {
	return &AccountService{client: client}
}

// AccountID retrieves the AWS account ID of the current credentials.
func (s *AccountService) AccountID(ctx context.Context) (string, error) {
	result, err := s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	if result.Account == nil {
		return "", fmt.Errorf("account ID is nil")
	}
	return *result.Account, nil
}
