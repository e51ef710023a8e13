// Package auth defines the authentication construct: a Cognito user pool,
// an identity pool, and the IAM roles federated identities assume. Its
// resource handles are consumed by downstream constructs to derive their
// authorization configuration.
package auth

import (
	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/synth"
)

// Props configures the auth construct. Each surface is optional so that
// downstream presence checks see only what was actually defined.
type Props struct {
	// LoginWithEmail enables the user pool with email sign-in.
	LoginWithEmail bool

	// AllowGuestAccess enables the identity pool's unauthenticated role.
	AllowGuestAccess bool
}

// Resources is the bundle of handles the auth construct exposes. Any field
// may be absent depending on Props. Read-only to consumers.
type Resources struct {
	// AuthenticatedRole is assumed by signed-in identities.
	AuthenticatedRole *synth.Resource

	// UnauthenticatedRole is assumed by guest identities.
	UnauthenticatedRole *synth.Resource

	// IdentityPoolID is the identity pool's id token.
	IdentityPoolID synth.Value

	// UserPool is the Cognito user pool handle.
	UserPool *synth.Resource
}

// Factory lazily constructs the auth resources for a backend. Instances
// are memoized through the backend's construct container.
type Factory struct {
	props     Props
	generator *generator
}

// Define creates the auth construct factory.
func Define(props Props) *Factory {
	return &Factory{props: props}
}

// GetInstance resolves the auth resources, constructing them on first call.
func (f *Factory) GetInstance(ctx *backend.ConstructContext) (*Resources, error) {
	if f.generator == nil {
		f.generator = &generator{props: f.props}
	}
	return backend.GetOrCompute[*Resources](ctx.Container, f.generator)
}

type generator struct {
	props Props
}

func (g *generator) GenerateContainerEntry(stack *synth.Stack) (*Resources, error) {
	resources := &Resources{}

	if g.props.LoginWithEmail {
		userPool, err := stack.AddResource("AmplifyAuthUserPool", "AWS::Cognito::UserPool", map[string]synth.Value{
			"UsernameAttributes":     []any{"email"},
			"AutoVerifiedAttributes": []any{"email"},
		})
		if err != nil {
			return nil, err
		}
		resources.UserPool = userPool

		if _, err := stack.AddResource("AmplifyAuthUserPoolClient", "AWS::Cognito::UserPoolClient", map[string]synth.Value{
			"UserPoolId": userPool.Ref(),
		}); err != nil {
			return nil, err
		}
	}

	identityPool, err := stack.AddResource("AmplifyAuthIdentityPool", "AWS::Cognito::IdentityPool", map[string]synth.Value{
		"AllowUnauthenticatedIdentities": g.props.AllowGuestAccess,
	})
	if err != nil {
		return nil, err
	}
	resources.IdentityPoolID = identityPool.Ref()

	authenticated, err := stack.AddResource("AmplifyAuthAuthenticatedRole", "AWS::IAM::Role", map[string]synth.Value{
		"AssumeRolePolicyDocument": federatedTrustPolicy(identityPool, "authenticated"),
	})
	if err != nil {
		return nil, err
	}
	resources.AuthenticatedRole = authenticated

	if g.props.AllowGuestAccess {
		unauthenticated, err := stack.AddResource("AmplifyAuthUnauthenticatedRole", "AWS::IAM::Role", map[string]synth.Value{
			"AssumeRolePolicyDocument": federatedTrustPolicy(identityPool, "unauthenticated"),
		})
		if err != nil {
			return nil, err
		}
		resources.UnauthenticatedRole = unauthenticated
	}

	return resources, nil
}

func federatedTrustPolicy(identityPool *synth.Resource, amr string) map[string]any {
	return map[string]any{
		"Version": "2012-10-17",
		"Statement": []any{
			map[string]any{
				"Effect": "Allow",
				"Principal": map[string]any{
					"Federated": "cognito-identity.amazonaws.com",
				},
				"Action": "sts:AssumeRoleWithWebIdentity",
				"Condition": map[string]any{
					"StringEquals": map[string]any{
						"cognito-identity.amazonaws.com:aud": identityPool.Ref(),
					},
					"ForAnyValue:StringLike": map[string]any{
						"cognito-identity.amazonaws.com:amr": amr,
					},
				},
			},
		},
	}
}
