package ext

import (
	"errors"
	"fmt"

	"github.com/seam-ml/seam/internal/tensor"
)

// AddOpName is the registered name of the element-wise addition kernel,
// matching the extension's public symbol.
const AddOpName = "add_tensors"

// addWorkgroupSize must match the @workgroup_size declaration in the
// kernel source.
const addWorkgroupSize = 256

// Validation failures reported before any GPU work happens.
var (
	ErrWrongDevice   = errors.New("tensor does not reside on the GPU device")
	ErrShapeMismatch = errors.New("input shapes do not match")
	ErrDType         = errors.New("unsupported dtype")
)

// RegisterAdd binds the element-wise addition kernel into the registry.
// The kernel source is loaded from src at every call.
func (r *Registry) RegisterAdd(src KernelSource) {
	r.Register(AddOpName, func(ctx *Context, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		if len(inputs) != 2 {
			return nil, fmt.Errorf("ext: %s expects 2 inputs, got %d", AddOpName, len(inputs))
		}
		result, err := Add(ctx, src, inputs[0], inputs[1])
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{result}, nil
	})
}

// Add computes the element-wise sum of a and b on the GPU.
//
// The sequence is the whole contract: validate both inputs live on the GPU
// device with matching shapes and float32 elements, load the kernel source
// from disk, compile it through the backend caches, bind a, b, the output,
// and the element-count params to bindings 0..3, dispatch one compute pass
// covering every element, and synchronize with the backend's queue so the
// returned tensor is immediately usable by framework operations. The first
// failure aborts the call; nothing is retried.
func Add(ctx *Context, src KernelSource, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if ctx == nil || ctx.GPU == nil {
		return nil, fmt.Errorf("ext: %s: no GPU backend in context", AddOpName)
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("ext: %s: nil input tensor", AddOpName)
	}
	if a.Device() != tensor.WebGPU {
		return nil, fmt.Errorf("ext: %s: input a is on %s: %w", AddOpName, a.Device(), ErrWrongDevice)
	}
	if b.Device() != tensor.WebGPU {
		return nil, fmt.Errorf("ext: %s: input b is on %s: %w", AddOpName, b.Device(), ErrWrongDevice)
	}
	if !a.Shape().Equal(b.Shape()) {
		return nil, fmt.Errorf("ext: %s: %v vs %v: %w", AddOpName, a.Shape(), b.Shape(), ErrShapeMismatch)
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		return nil, fmt.Errorf("ext: %s: got %s and %s, need float32: %w", AddOpName, a.DType(), b.DType(), ErrDType)
	}

	source, err := src.Load()
	if err != nil {
		return nil, err
	}

	numElements := a.NumElements()
	workgroups := uint32((numElements + addWorkgroupSize - 1) / addWorkgroupSize)

	return ctx.GPU.RunKernel(AddOpName, source, []*tensor.RawTensor{a, b}, a.Shape(), [3]uint32{workgroups, 1, 1})
}
