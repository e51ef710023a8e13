// Package data defines the GraphQL API construct: it derives authorization
// configuration from the backend's auth resources, normalizes the schema
// into a provider-ready definition, constructs the AppSync API, and layers
// the content-management role, its invoke policy, and the assets bucket
// CORS rule on top.
package data

import (
	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/constructs/auth"
)

// DefaultApiName is used when Props.Name is omitted.
const DefaultApiName = "amplifyData"

// Props is the user input to the data construct. Immutable once passed.
type Props struct {
	// Schema is the GraphQL schema source. Required.
	Schema SchemaSource

	// Name optionally overrides the API name.
	Name string

	// AuthorizationModes optionally overrides the derived authorization
	// configuration. Fields present here win over computed values.
	AuthorizationModes *AuthorizationModes
}

// AuthProvider resolves the backend's auth resources. The data construct
// depends on auth being resolvable first.
type AuthProvider interface {
	GetInstance(ctx *backend.ConstructContext) (*auth.Resources, error)
}
