package data

import (
	"fmt"
	"time"

	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/constants"
	"github.com/dbanksdesign/gen2/internal/constructs/appsync"
	"github.com/dbanksdesign/gen2/internal/constructs/auth"
	errs "github.com/dbanksdesign/gen2/internal/errors"
	"github.com/dbanksdesign/gen2/internal/synth"
)

// Origins allowed to read generated assets from the codegen bucket.
var consoleOrigins = []string{
	"https://console.aws.amazon.com",
	"https://us-east-1.console.aws.amazon.com",
	"https://dev.console.aws.amazon.com",
}

const defaultAPIKeyExpiryDays = 7

// Resource is the constructed data API handle exposed to the rest of the
// backend definition.
type Resource struct {
	Api                *appsync.GraphqlApi
	ManageRole         *synth.Resource
	ManagePolicy       *synth.Resource
	AuthorizationModes AuthorizationModes
	Definition         Definition
}

// Arn returns the API's ARN token.
func (r *Resource) Arn() synth.Value {
	return r.Api.Arn()
}

type generator struct {
	props      Props
	auth       *auth.Resources
	identifier backend.Identifier
	outputs    backend.OutputRecorder
}

// GenerateContainerEntry builds the data resource: authorization config,
// admin role, normalized schema, the API itself, then the invoke policy
// and assets-bucket CORS rule.
func (g *generator) GenerateContainerEntry(stack *synth.Stack) (*Resource, error) {
	computed := deriveAuthorizationModes(g.auth)

	manageRole, err := g.createManageRole(stack)
	if err != nil {
		return nil, err
	}
	computed.AdminRoles = []*synth.Resource{manageRole}

	modes := mergeAuthorizationModes(computed, g.props.AuthorizationModes)

	if g.props.Schema == nil {
		return nil, errs.ErrSchemaRequired
	}
	definition, err := g.props.Schema.apiDefinition()
	if err != nil {
		return nil, fmt.Errorf("failed to derive api definition: %w", err)
	}

	name := g.props.Name
	if name == "" {
		name = DefaultApiName
	}

	defaultProvider, additional, err := authProviders(modes)
	if err != nil {
		return nil, err
	}

	api, err := appsync.NewGraphqlApi(stack, "AmplifyData", appsync.GraphqlApiProps{
		Name:                    name,
		Definition:              definition.Schema,
		DefaultAuthProvider:     defaultProvider,
		AdditionalAuthProviders: additional,
	})
	if err != nil {
		return nil, err
	}

	if modes.APIKeyConfig != nil {
		if err := g.createAPIKey(stack, api, modes.APIKeyConfig); err != nil {
			return nil, err
		}
	}

	policy, err := g.createManagePolicy(stack, api, modes.AdminRoles)
	if err != nil {
		return nil, err
	}

	if err := g.addAssetBucketCors(api); err != nil {
		return nil, err
	}

	if err := g.outputs.Record("awsAppsync", map[string]synth.Value{
		"ApiId":              api.ApiID(),
		"ApiEndpoint":        api.GraphqlURL(),
		"Region":             synth.Ref(synth.PseudoRegion),
		"AuthenticationType": string(modes.DefaultAuthorizationMode),
	}); err != nil {
		return nil, err
	}

	return &Resource{
		Api:                api,
		ManageRole:         manageRole,
		ManagePolicy:       policy,
		AuthorizationModes: modes,
		Definition:         definition,
	}, nil
}

// createManageRole creates the deployment-scoped role the content
// management tooling assumes, trusted by the deployment account.
func (g *generator) createManageRole(stack *synth.Stack) (*synth.Resource, error) {
	roleName := fmt.Sprintf("%s-%s-%s",
		constants.ManageRolePrefix, g.identifier.BackendID, g.identifier.BranchName())

	return stack.AddResource("AmplifyDataManageRole", "AWS::IAM::Role", map[string]synth.Value{
		"RoleName": roleName,
		"AssumeRolePolicyDocument": map[string]any{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect": "Allow",
					"Principal": map[string]any{
						"AWS": synth.Ref(synth.PseudoAccountID),
					},
					"Action": "sts:AssumeRole",
				},
			},
		},
	})
}

// createManagePolicy grants the admin roles GraphQL invoke permission,
// scoped to exactly this API's ARN.
func (g *generator) createManagePolicy(stack *synth.Stack, api *appsync.GraphqlApi, adminRoles []*synth.Resource) (*synth.Resource, error) {
	var roleRefs []any
	for _, role := range adminRoles {
		roleRefs = append(roleRefs, role.Ref())
	}

	return stack.AddResource("AmplifyDataManagePolicy", "AWS::IAM::Policy", map[string]synth.Value{
		"PolicyName": "amplify-cms-manage-policy",
		"Roles":      roleRefs,
		"PolicyDocument": map[string]any{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect":   "Allow",
					"Action":   []any{"appsync:GraphQL"},
					"Resource": []any{api.Arn()},
				},
			},
		},
	})
}

// addAssetBucketCors locates the codegen assets bucket created alongside
// the API and permits read-only cross-origin access from the consoles.
// A missing bucket is fatal: deploying without the rule would break the
// console integrations that depend on it.
func (g *generator) addAssetBucketCors(api *appsync.GraphqlApi) error {
	bucket, ok := api.FindChild(appsync.CodegenAssetsBucketChild)
	if !ok {
		return errs.ErrAssetBucketNotFound
	}

	appsync.AddCorsRule(bucket, appsync.CorsRule{
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"*"},
		AllowedOrigins: consoleOrigins,
	})
	return nil
}

func (g *generator) createAPIKey(stack *synth.Stack, api *appsync.GraphqlApi, cfg *APIKeyConfig) error {
	days := cfg.ExpiresInDays
	if days <= 0 {
		days = defaultAPIKeyExpiryDays
	}

	_, err := stack.AddResource("AmplifyDataApiKey", "AWS::AppSync::ApiKey", map[string]synth.Value{
		"ApiId":   api.ApiID(),
		"Expires": time.Now().Add(time.Duration(days) * 24 * time.Hour).Unix(),
	})
	return err
}

// authProviders maps the merged authorization modes onto the API's default
// and additional authentication providers.
func authProviders(modes AuthorizationModes) (appsync.AuthProvider, []appsync.AuthProvider, error) {
	defaultProvider, err := providerFor(modes.DefaultAuthorizationMode, modes, true)
	if err != nil {
		return appsync.AuthProvider{}, nil, err
	}

	var additional []appsync.AuthProvider
	for _, mode := range []Mode{ModeIAM, ModeUserPool, ModeAPIKey, ModeOIDC, ModeLambda} {
		if mode == modes.DefaultAuthorizationMode || !modeConfigured(mode, modes) {
			continue
		}
		provider, err := providerFor(mode, modes, false)
		if err != nil {
			return appsync.AuthProvider{}, nil, err
		}
		additional = append(additional, provider)
	}

	return defaultProvider, additional, nil
}

func modeConfigured(mode Mode, modes AuthorizationModes) bool {
	switch mode {
	case ModeIAM:
		return modes.IAMConfig != nil
	case ModeUserPool:
		return modes.UserPoolConfig != nil
	case ModeAPIKey:
		return modes.APIKeyConfig != nil
	case ModeOIDC:
		return modes.OIDCConfig != nil
	case ModeLambda:
		return modes.LambdaConfig != nil
	default:
		return false
	}
}

func providerFor(mode Mode, modes AuthorizationModes, isDefault bool) (appsync.AuthProvider, error) {
	provider := appsync.AuthProvider{AuthenticationType: string(mode)}

	switch mode {
	case ModeIAM, ModeAPIKey:
		// No provider-level configuration.
	case ModeUserPool:
		if modes.UserPoolConfig == nil {
			return appsync.AuthProvider{}, fmt.Errorf("user pool mode selected but no user pool configured")
		}
		cfg := map[string]synth.Value{
			"UserPoolId": modes.UserPoolConfig.UserPool.Ref(),
			"AwsRegion":  synth.Ref(synth.PseudoRegion),
		}
		if isDefault {
			cfg["DefaultAction"] = "ALLOW"
		}
		provider.UserPoolConfig = cfg
	case ModeOIDC:
		if modes.OIDCConfig == nil {
			return appsync.AuthProvider{}, fmt.Errorf("oidc mode selected but no oidc config provided")
		}
		provider.OpenIDConnectConfig = map[string]synth.Value{
			"Issuer":   modes.OIDCConfig.Issuer,
			"ClientId": modes.OIDCConfig.ClientID,
		}
	case ModeLambda:
		if modes.LambdaConfig == nil {
			return appsync.AuthProvider{}, fmt.Errorf("lambda mode selected but no lambda config provided")
		}
		cfg := map[string]synth.Value{
			"AuthorizerUri": modes.LambdaConfig.FunctionArn,
		}
		if modes.LambdaConfig.TTLSeconds > 0 {
			cfg["AuthorizerResultTtlInSeconds"] = modes.LambdaConfig.TTLSeconds
		}
		if modes.LambdaConfig.IdentityValidationRe != "" {
			cfg["IdentityValidationExpression"] = modes.LambdaConfig.IdentityValidationRe
		}
		provider.LambdaAuthorizerConfig = cfg
	default:
		return appsync.AuthProvider{}, fmt.Errorf("unsupported authorization mode: %s", mode)
	}

	return provider, nil
}
