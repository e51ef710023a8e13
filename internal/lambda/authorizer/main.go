// AppSync Lambda authorizer. Compares the caller's authorization token
// against the backend's secret-stored token; denies by default.
package main

import (
	"context"
	"crypto/subtle"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog"

	"github.com/dbanksdesign/gen2/internal/di"
	"github.com/dbanksdesign/gen2/internal/services"
)

type Handler struct {
	// fetchToken resolves the expected token. Injected for tests.
	fetchToken func(ctx context.Context) (string, error)
}

func NewHandler(secrets *services.SecretStore, secretPath string) *Handler {
	return &Handler{
		fetchToken: func(ctx context.Context) (string, error) {
			return secrets.Get(ctx, secretPath)
		},
	}
}

func (h *Handler) HandleAuthorize(ctx context.Context, request events.AppSyncLambdaAuthorizerRequest) (events.AppSyncLambdaAuthorizerResponse, error) {
	logger := zerolog.Ctx(ctx)

	expected, err := h.fetchToken(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch authorizer token")
		return events.AppSyncLambdaAuthorizerResponse{IsAuthorized: false}, nil
	}

	authorized := subtle.ConstantTimeCompare([]byte(request.AuthorizationToken), []byte(expected)) == 1

	logger.Info().
		Bool("authorized", authorized).
		Str("api_id", request.RequestContext.APIID).
		Msg("Authorization decision")

	return events.AppSyncLambdaAuthorizerResponse{IsAuthorized: authorized}, nil
}

func main() {
	logger := di.ProvideLogger().With().Str("lambda", "authorizer").Logger()

	secretPath := os.Getenv("AUTHORIZER_SECRET_PATH")
	if secretPath == "" {
		logger.Error().Msg("AUTHORIZER_SECRET_PATH variable is required")
		os.Exit(1)
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load AWS config")
		os.Exit(1)
	}

	handler := NewHandler(services.NewSecretStore(secretsmanager.NewFromConfig(cfg)), secretPath)

	wrapped := func(ctx context.Context, request events.AppSyncLambdaAuthorizerRequest) (events.AppSyncLambdaAuthorizerResponse, error) {
		ctx = logger.WithContext(ctx)
		return handler.HandleAuthorize(ctx, request)
	}
	lambda.Start(wrapped)
}
