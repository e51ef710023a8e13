// Package appsync declares the AppSync resources a GraphQL API construct
// synthesizes: the API itself, its schema, and the codegen assets bucket
// client tooling downloads generated artifacts from.
package appsync

import (
	"fmt"

	"github.com/dbanksdesign/gen2/internal/synth"
)

// CodegenAssetsBucketChild is the fixed child name the assets bucket is
// registered under. Post-construction steps locate the bucket through it.
const CodegenAssetsBucketChild = "CodegenAssetsBucket"

// AuthProvider is one AppSync authentication provider entry.
type AuthProvider struct {
	AuthenticationType     string
	UserPoolConfig         map[string]synth.Value
	OpenIDConnectConfig    map[string]synth.Value
	LambdaAuthorizerConfig map[string]synth.Value
}

// GraphqlApiProps configures a GraphqlApi construct.
type GraphqlApiProps struct {
	// Name of the API. Required by CloudFormation; callers default it.
	Name string

	// Definition is the SDL the schema resource carries.
	Definition string

	// DefaultAuthProvider is the API's primary authentication provider.
	DefaultAuthProvider AuthProvider

	// AdditionalAuthProviders are secondary authentication providers.
	AdditionalAuthProviders []AuthProvider
}

// GraphqlApi is the constructed API handle. It owns the API resource, the
// schema resource, and the codegen assets bucket child.
type GraphqlApi struct {
	Api    *synth.Resource
	Schema *synth.Resource

	stack *synth.Stack
	id    string
}

// NewGraphqlApi creates the API, schema, and assets bucket resources on the
// stack under the construct id.
func NewGraphqlApi(stack *synth.Stack, id string, props GraphqlApiProps) (*GraphqlApi, error) {
	if props.Name == "" {
		return nil, fmt.Errorf("GraphQL API name is required")
	}
	if props.DefaultAuthProvider.AuthenticationType == "" {
		return nil, fmt.Errorf("GraphQL API default authentication type is required")
	}

	apiProps := map[string]synth.Value{
		"Name":               props.Name,
		"AuthenticationType": props.DefaultAuthProvider.AuthenticationType,
	}
	if cfg := props.DefaultAuthProvider.UserPoolConfig; cfg != nil {
		apiProps["UserPoolConfig"] = cfg
	}
	if cfg := props.DefaultAuthProvider.OpenIDConnectConfig; cfg != nil {
		apiProps["OpenIDConnectConfig"] = cfg
	}
	if cfg := props.DefaultAuthProvider.LambdaAuthorizerConfig; cfg != nil {
		apiProps["LambdaAuthorizerConfig"] = cfg
	}
	if len(props.AdditionalAuthProviders) > 0 {
		var providers []any
		for _, p := range props.AdditionalAuthProviders {
			entry := map[string]synth.Value{
				"AuthenticationType": p.AuthenticationType,
			}
			if p.UserPoolConfig != nil {
				entry["UserPoolConfig"] = p.UserPoolConfig
			}
			if p.OpenIDConnectConfig != nil {
				entry["OpenIDConnectConfig"] = p.OpenIDConnectConfig
			}
			if p.LambdaAuthorizerConfig != nil {
				entry["LambdaAuthorizerConfig"] = p.LambdaAuthorizerConfig
			}
			providers = append(providers, entry)
		}
		apiProps["AdditionalAuthenticationProviders"] = providers
	}

	api, err := stack.AddResource(id, "AWS::AppSync::GraphQLApi", apiProps)
	if err != nil {
		return nil, err
	}

	schema, err := stack.AddResource(id+"Schema", "AWS::AppSync::GraphQLSchema", map[string]synth.Value{
		"ApiId":      synth.GetAtt(id, "ApiId"),
		"Definition": props.Definition,
	})
	if err != nil {
		return nil, err
	}

	// The assets bucket is created implicitly alongside the API. Bucket
	// names are account-global, so naming is left to CloudFormation.
	if _, err := stack.AddResource(id+CodegenAssetsBucketChild, "AWS::S3::Bucket", map[string]synth.Value{}); err != nil {
		return nil, err
	}

	return &GraphqlApi{
		Api:    api,
		Schema: schema,
		stack:  stack,
		id:     id,
	}, nil
}

// Arn returns the API's ARN token.
func (g *GraphqlApi) Arn() synth.Value {
	return g.Api.Arn()
}

// ApiID returns the API's id token.
func (g *GraphqlApi) ApiID() synth.Value {
	return synth.GetAtt(g.Api.LogicalID(), "ApiId")
}

// GraphqlURL returns the API's endpoint token.
func (g *GraphqlApi) GraphqlURL() synth.Value {
	return synth.GetAtt(g.Api.LogicalID(), "GraphQLUrl")
}

// FindChild looks up a child resource of this construct by child name.
func (g *GraphqlApi) FindChild(name string) (*synth.Resource, bool) {
	return g.stack.FindResource(g.id + name)
}

// CorsRule is an S3 bucket CORS rule.
type CorsRule struct {
	AllowedMethods []string
	AllowedHeaders []string
	AllowedOrigins []string
}

// AddCorsRule appends a CORS rule to a bucket resource's configuration.
func AddCorsRule(bucket *synth.Resource, rule CorsRule) {
	entry := map[string]any{
		"AllowedMethods": toAny(rule.AllowedMethods),
		"AllowedHeaders": toAny(rule.AllowedHeaders),
		"AllowedOrigins": toAny(rule.AllowedOrigins),
	}

	cors, ok := bucket.Properties["CorsConfiguration"].(map[string]any)
	if !ok {
		cors = map[string]any{}
		bucket.Properties["CorsConfiguration"] = cors
	}
	rules, _ := cors["CorsRules"].([]any)
	cors["CorsRules"] = append(rules, entry)
}

func toAny(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
