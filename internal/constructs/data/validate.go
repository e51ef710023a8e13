package data

import (
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
)

// appsyncDirectives declares the AppSync auth directives so that schemas
// using them parse cleanly. AppSync declares these implicitly; a plain
// GraphQL parser does not know them.
const appsyncDirectives = `
directive @aws_api_key on OBJECT | FIELD_DEFINITION
directive @aws_iam on OBJECT | FIELD_DEFINITION
directive @aws_oidc on OBJECT | FIELD_DEFINITION
directive @aws_lambda on OBJECT | FIELD_DEFINITION
directive @aws_cognito_user_pools(cognito_groups: [String]) on OBJECT | FIELD_DEFINITION
directive @aws_auth(cognito_groups: [String]) on FIELD_DEFINITION
directive @aws_subscribe(mutations: [String]) on FIELD_DEFINITION
`

// ValidateSchema parses the SDL with the AppSync directive declarations in
// scope. It catches malformed schemas at definition time instead of at
// stack deployment. The schema must declare a query root.
func ValidateSchema(sdl string) error {
	if _, err := graphql.ParseSchema(appsyncDirectives+"\n"+sdl, nil); err != nil {
		return fmt.Errorf("invalid GraphQL schema: %w", err)
	}
	return nil
}
