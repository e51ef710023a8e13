package callsite

import "testing"

func TestFileVerifier(t *testing.T) {
	tests := []struct {
		name      string
		definedIn string
		wantErr   bool
	}{
		{
			name:      "expected path",
			definedIn: "/home/user/project/amplify/data/resource.go",
		},
		{
			name:      "wrong file",
			definedIn: "/home/user/project/main.go",
			wantErr:   true,
		},
		{
			name:      "wrong directory",
			definedIn: "/home/user/project/amplify/auth/resource.go",
			wantErr:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FileVerifier{}.Verify(tc.definedIn, "Amplify Data", "amplify/data/resource.go")
			if (err != nil) != tc.wantErr {
				t.Errorf("Verify(%q) error = %v, wantErr %v", tc.definedIn, err, tc.wantErr)
			}
		})
	}
}

func TestNoopVerifier(t *testing.T) {
	if err := (NoopVerifier{}).Verify("/anywhere/at/all.go", "Amplify Data", "amplify/data/resource.go"); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}
