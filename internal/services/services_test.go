package services

import "testing"

func TestSecretPath(t *testing.T) {
	tests := []struct {
		backendID string
		branch    string
		name      string
		want      string
	}{
		{"myapp", "sandbox", "authorizer-token", "amplify/myapp/sandbox/authorizer-token"},
		{"myapp", "main", "api-key", "amplify/myapp/main/api-key"},
	}
	for _, tc := range tests {
		if got := SecretPath(tc.backendID, tc.branch, tc.name); got != tc.want {
			t.Errorf("SecretPath(%q, %q, %q) = %q, want %q", tc.backendID, tc.branch, tc.name, got, tc.want)
		}
	}
}
