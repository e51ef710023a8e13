package data

import (
	"github.com/dbanksdesign/gen2/internal/constructs/auth"
	"github.com/dbanksdesign/gen2/internal/synth"
)

// Mode is an AppSync authentication type.
type Mode string

const (
	ModeIAM      Mode = "AWS_IAM"
	ModeUserPool Mode = "AMAZON_COGNITO_USER_POOLS"
	ModeAPIKey   Mode = "API_KEY"
	ModeOIDC     Mode = "OPENID_CONNECT"
	ModeLambda   Mode = "AWS_LAMBDA"
)

// IAMConfig carries the identity-pool roles IAM-authorized calls map to.
type IAMConfig struct {
	AuthenticatedRoleArn   synth.Value
	UnauthenticatedRoleArn synth.Value
	IdentityPoolID         synth.Value
}

// UserPoolConfig points the user-pool mode at a Cognito user pool.
type UserPoolConfig struct {
	UserPool *synth.Resource
}

// APIKeyConfig configures the API key mode.
type APIKeyConfig struct {
	ExpiresInDays int
}

// OIDCConfig configures the OpenID Connect mode.
type OIDCConfig struct {
	Issuer   string
	ClientID string
}

// LambdaConfig configures the Lambda authorizer mode.
type LambdaConfig struct {
	FunctionArn          synth.Value
	TTLSeconds           int
	IdentityValidationRe string
}

// AuthorizationModes is the derived authorization configuration. As a user
// override, any present field replaces the computed value wholesale;
// absent fields keep their computed values.
type AuthorizationModes struct {
	DefaultAuthorizationMode Mode
	IAMConfig                *IAMConfig
	UserPoolConfig           *UserPoolConfig
	APIKeyConfig             *APIKeyConfig
	OIDCConfig               *OIDCConfig
	LambdaConfig             *LambdaConfig
	AdminRoles               []*synth.Resource
}

// deriveAuthorizationModes computes the authorization configuration from
// which auth resources are present. IAM config requires the full triple of
// authenticated role, unauthenticated role, and identity pool id. A user
// pool forces the default mode to user-pool auth; this happens before any
// user override is applied, so overrides always win.
func deriveAuthorizationModes(resources *auth.Resources) AuthorizationModes {
	modes := AuthorizationModes{
		DefaultAuthorizationMode: ModeIAM,
	}

	if resources.AuthenticatedRole != nil && resources.UnauthenticatedRole != nil && resources.IdentityPoolID != nil {
		modes.IAMConfig = &IAMConfig{
			AuthenticatedRoleArn:   resources.AuthenticatedRole.Arn(),
			UnauthenticatedRoleArn: resources.UnauthenticatedRole.Arn(),
			IdentityPoolID:         resources.IdentityPoolID,
		}
	}

	if resources.UserPool != nil {
		modes.DefaultAuthorizationMode = ModeUserPool
		modes.UserPoolConfig = &UserPoolConfig{UserPool: resources.UserPool}
	}

	return modes
}

// mergeAuthorizationModes applies a shallow right-biased merge: each field
// present in the override replaces the computed value, AdminRoles included
// (there is no list merge).
func mergeAuthorizationModes(computed AuthorizationModes, override *AuthorizationModes) AuthorizationModes {
	if override == nil {
		return computed
	}

	merged := computed
	if override.DefaultAuthorizationMode != "" {
		merged.DefaultAuthorizationMode = override.DefaultAuthorizationMode
	}
	if override.IAMConfig != nil {
		merged.IAMConfig = override.IAMConfig
	}
	if override.UserPoolConfig != nil {
		merged.UserPoolConfig = override.UserPoolConfig
	}
	if override.APIKeyConfig != nil {
		merged.APIKeyConfig = override.APIKeyConfig
	}
	if override.OIDCConfig != nil {
		merged.OIDCConfig = override.OIDCConfig
	}
	if override.LambdaConfig != nil {
		merged.LambdaConfig = override.LambdaConfig
	}
	if override.AdminRoles != nil {
		merged.AdminRoles = override.AdminRoles
	}
	return merged
}
