package di

type DeploymentBucket string
type DeploymentsTable string

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithDeploymentBucket sets the S3 bucket deployment assets are staged in.
func WithDeploymentBucket(bucket string) Option {
	return func(opts *options) {
		opts.deploymentBucket = DeploymentBucket(bucket)
	}
}

// WithDeploymentsTable sets the DynamoDB table deployment history lives in.
func WithDeploymentsTable(table string) Option {
	return func(opts *options) {
		opts.deploymentsTable = DeploymentsTable(table)
	}
}

// WithProviders adds constructor functions to the dependency injection
// container. Providers can declare dependencies as function parameters,
// which will be automatically resolved by the container.
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	deploymentBucket DeploymentBucket
	deploymentsTable DeploymentsTable
	providers        []any
}
