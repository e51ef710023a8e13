package data

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/callsite"
	"github.com/dbanksdesign/gen2/internal/constructs/appsync"
	"github.com/dbanksdesign/gen2/internal/constructs/auth"
	errs "github.com/dbanksdesign/gen2/internal/errors"
	"github.com/dbanksdesign/gen2/internal/synth"
)

func newTestBackend(t *testing.T, branch string) *backend.Backend {
	t.Helper()

	id, err := backend.NewIdentifier("b1", branch)
	if err != nil {
		t.Fatalf("NewIdentifier() error = %v", err)
	}
	return backend.New(id)
}

func defineTestFactory(authProps auth.Props, opts ...Option) *Factory {
	options := []Option{
		WithAuthProvider(auth.Define(authProps)),
		WithPathVerifier(callsite.NoopVerifier{}),
	}
	return Define(Props{Schema: Schema(testSDL)}, append(options, opts...)...)
}

func TestGetInstanceManageRole(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{AllowGuestAccess: true})

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}

	role := resource.ManageRole
	if role == nil {
		t.Fatal("ManageRole is nil")
	}
	if got, want := role.Properties["RoleName"], "amplify-cms-manage-role-b1-sandbox"; got != want {
		t.Errorf("RoleName = %v, want %v", got, want)
	}

	doc, ok := role.Properties["AssumeRolePolicyDocument"].(map[string]any)
	if !ok {
		t.Fatal("AssumeRolePolicyDocument missing")
	}
	statements := doc["Statement"].([]any)
	principal := statements[0].(map[string]any)["Principal"].(map[string]any)
	if !reflect.DeepEqual(principal["AWS"], synth.Ref(synth.PseudoAccountID)) {
		t.Errorf("trust principal = %v, want Ref %s", principal["AWS"], synth.PseudoAccountID)
	}
}

func TestGetInstanceManageRoleBranch(t *testing.T) {
	b := newTestBackend(t, "main")
	factory := defineTestFactory(auth.Props{})

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}
	if got, want := resource.ManageRole.Properties["RoleName"], "amplify-cms-manage-role-b1-main"; got != want {
		t.Errorf("RoleName = %v, want %v", got, want)
	}
}

func TestGetInstanceManagePolicy(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{})

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}

	policy := resource.ManagePolicy
	if policy == nil {
		t.Fatal("ManagePolicy is nil")
	}
	if got, want := policy.Properties["PolicyName"], "amplify-cms-manage-policy"; got != want {
		t.Errorf("PolicyName = %v, want %v", got, want)
	}

	doc := policy.Properties["PolicyDocument"].(map[string]any)
	statement := doc["Statement"].([]any)[0].(map[string]any)
	if !reflect.DeepEqual(statement["Action"], []any{"appsync:GraphQL"}) {
		t.Errorf("Action = %v, want exactly [appsync:GraphQL]", statement["Action"])
	}
	if !reflect.DeepEqual(statement["Resource"], []any{resource.Api.Arn()}) {
		t.Errorf("Resource = %v, want exactly the API ARN", statement["Resource"])
	}

	roles := policy.Properties["Roles"].([]any)
	if len(roles) != 1 || !reflect.DeepEqual(roles[0], resource.ManageRole.Ref()) {
		t.Errorf("Roles = %v, want the manage role ref", roles)
	}
}

func TestGetInstanceAssetBucketCors(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{})

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}

	bucket, ok := resource.Api.FindChild(appsync.CodegenAssetsBucketChild)
	if !ok {
		t.Fatal("codegen assets bucket not found")
	}

	cors := bucket.Properties["CorsConfiguration"].(map[string]any)
	rules := cors["CorsRules"].([]any)
	if len(rules) != 1 {
		t.Fatalf("got %d CORS rules, want 1", len(rules))
	}

	rule := rules[0].(map[string]any)
	if !reflect.DeepEqual(rule["AllowedMethods"], []any{"GET"}) {
		t.Errorf("AllowedMethods = %v, want [GET]", rule["AllowedMethods"])
	}
	if !reflect.DeepEqual(rule["AllowedHeaders"], []any{"*"}) {
		t.Errorf("AllowedHeaders = %v, want [*]", rule["AllowedHeaders"])
	}
	wantOrigins := []any{
		"https://console.aws.amazon.com",
		"https://us-east-1.console.aws.amazon.com",
		"https://dev.console.aws.amazon.com",
	}
	if !reflect.DeepEqual(rule["AllowedOrigins"], wantOrigins) {
		t.Errorf("AllowedOrigins = %v, want %v", rule["AllowedOrigins"], wantOrigins)
	}
}

func TestGetInstanceMemoized(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{})

	first, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}
	second, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}
	if first != second {
		t.Error("GetInstance() returned different instances")
	}
}

func TestGetInstanceDefaultModeIAM(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{})

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}
	if got, want := resource.AuthorizationModes.DefaultAuthorizationMode, ModeIAM; got != want {
		t.Errorf("DefaultAuthorizationMode = %v, want %v", got, want)
	}
	if got, want := resource.Api.Api.Properties["AuthenticationType"], "AWS_IAM"; got != want {
		t.Errorf("AuthenticationType = %v, want %v", got, want)
	}
}

func TestGetInstanceUserPoolFlipsDefault(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{LoginWithEmail: true, AllowGuestAccess: true})

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}
	if got, want := resource.AuthorizationModes.DefaultAuthorizationMode, ModeUserPool; got != want {
		t.Errorf("DefaultAuthorizationMode = %v, want %v", got, want)
	}

	api := resource.Api.Api
	if got, want := api.Properties["AuthenticationType"], "AMAZON_COGNITO_USER_POOLS"; got != want {
		t.Errorf("AuthenticationType = %v, want %v", got, want)
	}
	cfg, ok := api.Properties["UserPoolConfig"].(map[string]synth.Value)
	if !ok {
		t.Fatal("UserPoolConfig missing from default provider")
	}
	if cfg["DefaultAction"] != "ALLOW" {
		t.Errorf("DefaultAction = %v, want ALLOW", cfg["DefaultAction"])
	}

	// The IAM mode stays configured as an additional provider.
	additional, ok := api.Properties["AdditionalAuthenticationProviders"].([]any)
	if !ok || len(additional) != 1 {
		t.Fatalf("AdditionalAuthenticationProviders = %v, want one entry", api.Properties["AdditionalAuthenticationProviders"])
	}
	entry := additional[0].(map[string]synth.Value)
	if got, want := entry["AuthenticationType"], "AWS_IAM"; got != want {
		t.Errorf("additional provider = %v, want %v", got, want)
	}
}

func TestGetInstanceOverrideWins(t *testing.T) {
	b := newTestBackend(t, "")
	factory := Define(Props{
		Schema: Schema(testSDL),
		AuthorizationModes: &AuthorizationModes{
			DefaultAuthorizationMode: ModeAPIKey,
			APIKeyConfig:             &APIKeyConfig{ExpiresInDays: 30},
		},
	},
		WithAuthProvider(auth.Define(auth.Props{LoginWithEmail: true})),
		WithPathVerifier(callsite.NoopVerifier{}),
	)

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}
	if got, want := resource.AuthorizationModes.DefaultAuthorizationMode, ModeAPIKey; got != want {
		t.Errorf("DefaultAuthorizationMode = %v, want %v", got, want)
	}
	if _, ok := b.Context().Stack.FindResource("AmplifyDataApiKey"); !ok {
		t.Error("api key resource was not created")
	}
}

func TestGetInstanceAdminRolesDefault(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{})

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}
	roles := resource.AuthorizationModes.AdminRoles
	if len(roles) != 1 || roles[0] != resource.ManageRole {
		t.Errorf("AdminRoles = %v, want exactly the manage role", roles)
	}
}

func TestGetInstanceRecordsOutputs(t *testing.T) {
	b := newTestBackend(t, "")
	factory := defineTestFactory(auth.Props{})

	if _, err := factory.GetInstance(b.Context()); err != nil {
		t.Fatalf("GetInstance() error = %v", err)
	}

	template := b.Synth()
	for _, name := range []string{
		"awsAppsyncApiId",
		"awsAppsyncApiEndpoint",
		"awsAppsyncRegion",
		"awsAppsyncAuthenticationType",
	} {
		if _, ok := template.Outputs[name]; !ok {
			t.Errorf("output %s missing from template", name)
		}
	}
	if got, want := template.Outputs["awsAppsyncAuthenticationType"].Value, "AWS_IAM"; got != want {
		t.Errorf("authentication type output = %v, want %v", got, want)
	}
}

func TestGetInstanceNilSchema(t *testing.T) {
	b := newTestBackend(t, "")
	factory := Define(Props{},
		WithAuthProvider(auth.Define(auth.Props{})),
		WithPathVerifier(callsite.NoopVerifier{}),
	)

	if _, err := factory.GetInstance(b.Context()); !errors.Is(err, errs.ErrSchemaRequired) {
		t.Errorf("GetInstance() error = %v, want %v", err, errs.ErrSchemaRequired)
	}
}

func TestGetInstanceNoAuthProvider(t *testing.T) {
	b := newTestBackend(t, "")
	factory := Define(Props{Schema: Schema(testSDL)},
		WithPathVerifier(callsite.NoopVerifier{}),
	)

	if _, err := factory.GetInstance(b.Context()); !errors.Is(err, errs.ErrAuthNotConfigured) {
		t.Errorf("GetInstance() error = %v, want %v", err, errs.ErrAuthNotConfigured)
	}
}

func TestGetInstanceCallsiteRejected(t *testing.T) {
	b := newTestBackend(t, "")

	// Defined from this test file, which is not amplify/data/resource.go.
	factory := Define(Props{Schema: Schema(testSDL)},
		WithAuthProvider(auth.Define(auth.Props{})),
	)

	if _, err := factory.GetInstance(b.Context()); err == nil {
		t.Error("GetInstance() should reject a define call outside the expected file")
	}
}
