// Package ext implements the native kernel extension boundary of the seam
// runtime: externally supplied GPU kernels are registered by name and
// invoked against framework tensors.
package ext

import (
	"fmt"
	"sync"

	"github.com/seam-ml/seam/internal/backend/webgpu"
	"github.com/seam-ml/seam/internal/tensor"
)

// Handler executes a registered operation against framework tensors.
type Handler func(ctx *Context, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error)

// Context provides the execution context for extension operations.
type Context struct {
	GPU *webgpu.Backend
}

// Registry maps operation names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty extension registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler under the given name, replacing any previous one.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Get returns the handler for an operation name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Execute runs a registered operation with the given inputs.
func (r *Registry) Execute(ctx *Context, name string, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	handler, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("ext: unknown operation: %s", name)
	}
	return handler(ctx, inputs)
}

// Ops returns the names of all registered operations.
func (r *Registry) Ops() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		ops = append(ops, name)
	}
	return ops
}
