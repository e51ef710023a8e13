package constants

// Well-known names shared across construct generation and deployment tooling
const (
	// ManageRolePrefix is the prefix of the deployment-scoped role that the
	// content management tooling assumes to invoke the GraphQL API.
	// The full role name is {prefix}-{backend-id}-{branch}.
	ManageRolePrefix = "amplify-cms-manage-role"

	// DefaultBranch is the branch name used for local sandbox deployments
	// when no branch is supplied.
	DefaultBranch = "sandbox"

	// ManagedByTag is the value of the ManagedBy tag applied to every stack
	// deployed by this tool.
	ManagedByTag = "gen2"
)
