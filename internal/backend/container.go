package backend

import (
	"fmt"

	"github.com/dbanksdesign/gen2/internal/synth"
)

// EntryGenerator produces a construct container entry. Implementations are
// typically unexported generator structs owned by a construct factory.
type EntryGenerator[T any] interface {
	// GenerateContainerEntry builds the entry's resources on the stack and
	// returns the entry. Called at most once per generator per container.
	GenerateContainerEntry(stack *synth.Stack) (T, error)
}

// ConstructFactory is the typed handle a backend uses to resolve a
// construct singleton. Factories are idempotent after the first call.
type ConstructFactory[T any] interface {
	GetInstance(ctx *ConstructContext) (T, error)
}

// Container memoizes construct entries by generator identity. One entry is
// materialized per generator; subsequent lookups return the cached value.
// Synthesis runs single-threaded, so no locking is required.
type Container struct {
	stack   *synth.Stack
	entries map[any]any
}

// NewContainer creates a container that generates entries onto stack.
func NewContainer(stack *synth.Stack) *Container {
	return &Container{
		stack:   stack,
		entries: map[any]any{},
	}
}

// GetOrCompute returns the memoized entry for the generator, materializing
// it on first access.
func GetOrCompute[T any](c *Container, generator EntryGenerator[T]) (T, error) {
	if cached, ok := c.entries[generator]; ok {
		entry, ok := cached.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("container entry has unexpected type %T", cached)
		}
		return entry, nil
	}

	entry, err := generator.GenerateContainerEntry(c.stack)
	if err != nil {
		var zero T
		return zero, err
	}

	c.entries[generator] = entry
	return entry, nil
}

// ConstructContext is passed to every factory's GetInstance call.
type ConstructContext struct {
	Container  *Container
	Stack      *synth.Stack
	Identifier Identifier
	Outputs    OutputRecorder
}

// OutputRecorder is the output-recording strategy a backend supplies to its
// constructs. Recorded values are surfaced to client tooling after deploy.
type OutputRecorder interface {
	Record(namespace string, values map[string]synth.Value) error
}
