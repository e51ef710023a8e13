// Package callsite enforces the convention that each resource factory is
// defined in its designated file within a project.
package callsite

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Verifier checks the file a define call was made from against the
// project's expected location for that resource.
type Verifier interface {
	Verify(definedIn, resourceName, expectedPath string) error
}

// FileVerifier verifies by path suffix, e.g. a data factory must be
// defined in a file ending in amplify/data/resource.go.
type FileVerifier struct{}

func (FileVerifier) Verify(definedIn, resourceName, expectedPath string) error {
	normalized := filepath.ToSlash(definedIn)
	if strings.HasSuffix(normalized, expectedPath) {
		return nil
	}
	return fmt.Errorf("%s must be defined in %s, got %s", resourceName, expectedPath, normalized)
}

// NoopVerifier skips the check. Used by tests and by config-driven
// definitions where no user source file exists.
type NoopVerifier struct{}

func (NoopVerifier) Verify(definedIn, resourceName, expectedPath string) error {
	return nil
}
