package errors

import "errors"

var (
	ErrBackendIDRequired        = errors.New("backend id is required")
	ErrSchemaRequired           = errors.New("schema must be a raw string or a transformable schema source")
	ErrAuthNotConfigured        = errors.New("auth resources must be defined before data")
	ErrAssetBucketNotFound      = errors.New("codegen assets bucket not found on GraphQL API construct")
	ErrStackNotFound            = errors.New("stack not found")
	ErrDeploymentBucketRequired = errors.New("DEPLOYMENT_BUCKET environment variable is required")
	ErrStackOperationFailed     = errors.New("stack operation finished in a failed state")
)
