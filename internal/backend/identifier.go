// Package backend holds the per-backend construct container and the
// identifier that scopes every generated resource name.
package backend

import (
	"fmt"

	"github.com/dbanksdesign/gen2/internal/constants"
	errs "github.com/dbanksdesign/gen2/internal/errors"
)

// Identifier names a single backend deployment. Both values are explicit
// constructor parameters rather than ambient context so that construction
// stays pure and testable.
type Identifier struct {
	// BackendID identifies the backend project. Required.
	BackendID string

	// Branch is the deployment branch. Empty means a local sandbox.
	Branch string
}

// NewIdentifier validates the backend id and returns an Identifier.
func NewIdentifier(backendID, branch string) (Identifier, error) {
	if backendID == "" {
		return Identifier{}, errs.ErrBackendIDRequired
	}
	return Identifier{BackendID: backendID, Branch: branch}, nil
}

// BranchName returns the branch, defaulting to the sandbox sentinel.
func (id Identifier) BranchName() string {
	if id.Branch == "" {
		return constants.DefaultBranch
	}
	return id.Branch
}

// StackName returns the CloudFormation stack name for this backend.
func (id Identifier) StackName() string {
	return fmt.Sprintf("gen2-%s-%s", id.BackendID, id.BranchName())
}

// String returns {backend-id}/{branch}.
func (id Identifier) String() string {
	return fmt.Sprintf("%s/%s", id.BackendID, id.BranchName())
}
