package backend

import (
	"github.com/dbanksdesign/gen2/internal/synth"
)

// Backend assembles the stack, container, and output recorder for a single
// backend definition and drives synthesis.
type Backend struct {
	identifier Identifier
	stack      *synth.Stack
	container  *Container
	ctx        *ConstructContext
}

// Option configures a Backend.
type Option func(*Backend)

// WithOutputRecorder replaces the default stack-outputs recorder.
func WithOutputRecorder(recorder OutputRecorder) Option {
	return func(b *Backend) {
		b.ctx.Outputs = recorder
	}
}

// New creates a backend definition scoped to the identifier.
func New(identifier Identifier, opts ...Option) *Backend {
	stack := synth.NewStack(identifier.StackName())
	container := NewContainer(stack)

	b := &Backend{
		identifier: identifier,
		stack:      stack,
		container:  container,
		ctx: &ConstructContext{
			Container:  container,
			Stack:      stack,
			Identifier: identifier,
			Outputs:    &stackRecorder{stack: stack},
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Context returns the construct context factories resolve against.
func (b *Backend) Context() *ConstructContext {
	return b.ctx
}

// Identifier returns the backend identifier.
func (b *Backend) Identifier() Identifier {
	return b.identifier
}

// Synth freezes the stack into a CloudFormation template.
func (b *Backend) Synth() *synth.Template {
	return b.stack.Template()
}

// stackRecorder writes recorded values as CloudFormation stack outputs
// named {namespace}{key}. Collisions are definition errors.
type stackRecorder struct {
	stack *synth.Stack
}

func (r *stackRecorder) Record(namespace string, values map[string]synth.Value) error {
	for key, value := range values {
		if err := r.stack.AddOutput(namespace+key, synth.Output{Value: value}); err != nil {
			return err
		}
	}
	return nil
}
