package backend

import (
	"errors"
	"testing"

	errs "github.com/dbanksdesign/gen2/internal/errors"
)

func TestNewIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		backendID  string
		branch     string
		wantErr    error
		wantBranch string
		wantStack  string
		wantString string
	}{
		{
			name:       "branch defaults to sandbox",
			backendID:  "myapp",
			wantBranch: "sandbox",
			wantStack:  "gen2-myapp-sandbox",
			wantString: "myapp/sandbox",
		},
		{
			name:       "explicit branch",
			backendID:  "myapp",
			branch:     "main",
			wantBranch: "main",
			wantStack:  "gen2-myapp-main",
			wantString: "myapp/main",
		},
		{
			name:    "empty backend id",
			wantErr: errs.ErrBackendIDRequired,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := NewIdentifier(tc.backendID, tc.branch)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("NewIdentifier() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewIdentifier() error = %v", err)
			}
			if got := id.BranchName(); got != tc.wantBranch {
				t.Errorf("BranchName() = %v, want %v", got, tc.wantBranch)
			}
			if got := id.StackName(); got != tc.wantStack {
				t.Errorf("StackName() = %v, want %v", got, tc.wantStack)
			}
			if got := id.String(); got != tc.wantString {
				t.Errorf("String() = %v, want %v", got, tc.wantString)
			}
		})
	}
}
