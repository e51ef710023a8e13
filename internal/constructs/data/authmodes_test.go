package data

import (
	"testing"

	"github.com/dbanksdesign/gen2/internal/constructs/auth"
	"github.com/dbanksdesign/gen2/internal/synth"
)

func authResources(t *testing.T) *auth.Resources {
	t.Helper()

	stack := synth.NewStack("test-stack")
	authenticated, err := stack.AddResource("AuthRole", "AWS::IAM::Role", nil)
	if err != nil {
		t.Fatalf("AddResource() error = %v", err)
	}
	unauthenticated, err := stack.AddResource("UnauthRole", "AWS::IAM::Role", nil)
	if err != nil {
		t.Fatalf("AddResource() error = %v", err)
	}
	userPool, err := stack.AddResource("UserPool", "AWS::Cognito::UserPool", nil)
	if err != nil {
		t.Fatalf("AddResource() error = %v", err)
	}

	return &auth.Resources{
		AuthenticatedRole:   authenticated,
		UnauthenticatedRole: unauthenticated,
		IdentityPoolID:      synth.Ref("IdentityPool"),
		UserPool:            userPool,
	}
}

func TestDeriveAuthorizationModes(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*auth.Resources)
		wantDefault  Mode
		wantIAM      bool
		wantUserPool bool
	}{
		{
			name:         "full resources",
			mutate:       func(r *auth.Resources) {},
			wantDefault:  ModeUserPool,
			wantIAM:      true,
			wantUserPool: true,
		},
		{
			name:        "no user pool",
			mutate:      func(r *auth.Resources) { r.UserPool = nil },
			wantDefault: ModeIAM,
			wantIAM:     true,
		},
		{
			name: "missing authenticated role",
			mutate: func(r *auth.Resources) {
				r.AuthenticatedRole = nil
				r.UserPool = nil
			},
			wantDefault: ModeIAM,
		},
		{
			name: "missing unauthenticated role",
			mutate: func(r *auth.Resources) {
				r.UnauthenticatedRole = nil
				r.UserPool = nil
			},
			wantDefault: ModeIAM,
		},
		{
			name: "missing identity pool id",
			mutate: func(r *auth.Resources) {
				r.IdentityPoolID = nil
				r.UserPool = nil
			},
			wantDefault: ModeIAM,
		},
		{
			name: "user pool only",
			mutate: func(r *auth.Resources) {
				r.AuthenticatedRole = nil
				r.UnauthenticatedRole = nil
				r.IdentityPoolID = nil
			},
			wantDefault:  ModeUserPool,
			wantUserPool: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resources := authResources(t)
			tc.mutate(resources)

			modes := deriveAuthorizationModes(resources)
			if modes.DefaultAuthorizationMode != tc.wantDefault {
				t.Errorf("DefaultAuthorizationMode = %v, want %v", modes.DefaultAuthorizationMode, tc.wantDefault)
			}
			if (modes.IAMConfig != nil) != tc.wantIAM {
				t.Errorf("IAMConfig present = %v, want %v", modes.IAMConfig != nil, tc.wantIAM)
			}
			if (modes.UserPoolConfig != nil) != tc.wantUserPool {
				t.Errorf("UserPoolConfig present = %v, want %v", modes.UserPoolConfig != nil, tc.wantUserPool)
			}
		})
	}
}

func TestMergeAuthorizationModes(t *testing.T) {
	stack := synth.NewStack("test-stack")
	adminRole, err := stack.AddResource("AdminRole", "AWS::IAM::Role", nil)
	if err != nil {
		t.Fatalf("AddResource() error = %v", err)
	}
	overrideRole, err := stack.AddResource("OverrideRole", "AWS::IAM::Role", nil)
	if err != nil {
		t.Fatalf("AddResource() error = %v", err)
	}

	computed := AuthorizationModes{
		DefaultAuthorizationMode: ModeIAM,
		IAMConfig:                &IAMConfig{IdentityPoolID: "pool"},
		AdminRoles:               []*synth.Resource{adminRole},
	}

	t.Run("nil override keeps computed", func(t *testing.T) {
		merged := mergeAuthorizationModes(computed, nil)
		if merged.DefaultAuthorizationMode != ModeIAM {
			t.Errorf("DefaultAuthorizationMode = %v, want %v", merged.DefaultAuthorizationMode, ModeIAM)
		}
		if merged.IAMConfig != computed.IAMConfig {
			t.Error("IAMConfig should be the computed value")
		}
	})

	t.Run("present fields replace wholesale", func(t *testing.T) {
		override := &AuthorizationModes{
			DefaultAuthorizationMode: ModeAPIKey,
			APIKeyConfig:             &APIKeyConfig{ExpiresInDays: 30},
		}
		merged := mergeAuthorizationModes(computed, override)
		if merged.DefaultAuthorizationMode != ModeAPIKey {
			t.Errorf("DefaultAuthorizationMode = %v, want %v", merged.DefaultAuthorizationMode, ModeAPIKey)
		}
		if merged.APIKeyConfig == nil || merged.APIKeyConfig.ExpiresInDays != 30 {
			t.Error("APIKeyConfig override was not applied")
		}
		// Absent fields keep computed values.
		if merged.IAMConfig != computed.IAMConfig {
			t.Error("IAMConfig should keep the computed value")
		}
		if len(merged.AdminRoles) != 1 || merged.AdminRoles[0] != adminRole {
			t.Error("AdminRoles should keep the computed value")
		}
	})

	t.Run("admin roles replace, not append", func(t *testing.T) {
		override := &AuthorizationModes{
			AdminRoles: []*synth.Resource{overrideRole},
		}
		merged := mergeAuthorizationModes(computed, override)
		if len(merged.AdminRoles) != 1 || merged.AdminRoles[0] != overrideRole {
			t.Errorf("AdminRoles = %v, want the override list only", merged.AdminRoles)
		}
		// Everything else stays computed.
		if merged.DefaultAuthorizationMode != ModeIAM {
			t.Errorf("DefaultAuthorizationMode = %v, want %v", merged.DefaultAuthorizationMode, ModeIAM)
		}
	})
}
