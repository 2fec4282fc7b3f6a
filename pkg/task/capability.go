package task

import (
	"context"

	"github.com/ghostmind-dev/run/pkg/invocation"
	"github.com/ghostmind-dev/run/pkg/types"
)

// Environment variables consumed by external collaborators for volume
// and path translation. The orchestrator itself treats them as opaque
// strings in the snapshot.
const (
	EnvContainerRoot = "RUN_CONTAINER_ROOT"
	EnvHostRoot      = "RUN_HOST_ROOT"
)

// StartFunc is the scheduler entry point bound into a capability
type StartFunc func(ctx context.Context, tasks map[string]types.Spec) (*types.RunOutcome, error)

// BindingFunc is an opaque external collaborator (image build/push,
// infrastructure activation, secret access). The contract is a
// structured options bag in, success or failure out; internals are out
// of the orchestrator's scope.
type BindingFunc func(ctx context.Context, opts map[string]interface{}) error

// Capability is the object injected into every consumer task module:
// the read-only invocation context plus the scheduler entry point and
// the registered collaborator bindings.
type Capability struct {
	*invocation.Context

	start    StartFunc
	bindings map[string]BindingFunc
}

// NewCapability assembles a capability around an invocation context
func NewCapability(inv *invocation.Context, start StartFunc, bindings map[string]BindingFunc) *Capability {
	return &Capability{
		Context:  inv,
		start:    start,
		bindings: bindings,
	}
}

// Start invokes the scheduler on the given orchestration map
func (c *Capability) Start(ctx context.Context, tasks map[string]types.Spec) (*types.RunOutcome, error) {
	return c.start(ctx, tasks)
}

// Binding returns the named collaborator function
func (c *Capability) Binding(name string) (BindingFunc, error) {
	fn, ok := c.bindings[name]
	if !ok {
		return nil, ErrUnknownBinding
	}
	return fn, nil
}
