package data

import (
	"runtime"

	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/callsite"
	errs "github.com/dbanksdesign/gen2/internal/errors"
)

// ExpectedResourcePath is where a project defines its data resource.
const ExpectedResourcePath = "amplify/data/resource.go"

const resourceName = "Amplify Data"

// Factory lazily constructs the data resource for a backend. The instance
// is memoized through the backend's construct container, so repeated
// GetInstance calls return the same resource.
type Factory struct {
	props     Props
	auth      AuthProvider
	verifier  callsite.Verifier
	definedIn string
	generator *generator
}

// Option configures a Factory.
type Option func(*Factory)

// WithAuthProvider wires the upstream auth construct the data construct
// derives its authorization configuration from.
func WithAuthProvider(provider AuthProvider) Option {
	return func(f *Factory) {
		f.auth = provider
	}
}

// WithPathVerifier replaces the call-site verifier.
func WithPathVerifier(verifier callsite.Verifier) Option {
	return func(f *Factory) {
		f.verifier = verifier
	}
}

// Define creates the data construct factory. The defining file is captured
// here and checked against the project convention on first resolution.
func Define(props Props, opts ...Option) *Factory {
	_, file, _, _ := runtime.Caller(1)

	f := &Factory{
		props:     props,
		verifier:  callsite.FileVerifier{},
		definedIn: file,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetInstance resolves the data resource, constructing it on first call.
// Auth must be resolvable before data.
func (f *Factory) GetInstance(ctx *backend.ConstructContext) (*Resource, error) {
	if err := f.verifier.Verify(f.definedIn, resourceName, ExpectedResourcePath); err != nil {
		return nil, err
	}

	if f.generator == nil {
		if f.auth == nil {
			return nil, errs.ErrAuthNotConfigured
		}
		authResources, err := f.auth.GetInstance(ctx)
		if err != nil {
			return nil, err
		}

		f.generator = &generator{
			props:      f.props,
			auth:       authResources,
			identifier: ctx.Identifier,
			outputs:    ctx.Outputs,
		}
	}

	return backend.GetOrCompute[*Resource](ctx.Container, f.generator)
}
