// Copyright 2025 Seam ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ext provides the native extension mechanism for custom GPU
// compute kernels.
//
// Extensions register named operations backed by WGSL kernel sources.
// Kernel source files are read from disk when an operation runs, so
// editing a kernel takes effect on the next call without rebuilding
// the program.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	registry := ext.NewRegistry()
//	registry.RegisterAdd(ext.KernelSource{Path: "kernels/add.wgsl"})
//
//	outputs, err := registry.Execute(&ext.Context{GPU: gpu}, ext.AddOpName,
//	    []*tensor.RawTensor{a, b})
package ext

import (
	internalext "github.com/seam-ml/seam/internal/ext"
	"github.com/seam-ml/seam/tensor"
)

// AddOpName is the registered name of the element-wise addition operation.
const AddOpName = internalext.AddOpName

// Handler executes a registered operation against a set of input tensors.
type Handler = internalext.Handler

// Context carries the resources an operation needs at execution time.
type Context = internalext.Context

// Registry maps operation names to handlers.
type Registry = internalext.Registry

// KernelSource locates a WGSL kernel on disk. The file is read each
// time the operation executes.
type KernelSource = internalext.KernelSource

// Validation errors returned by operations. Use errors.Is to test for them.
var (
	ErrWrongDevice   = internalext.ErrWrongDevice
	ErrShapeMismatch = internalext.ErrShapeMismatch
	ErrDType         = internalext.ErrDType
)

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	return internalext.NewRegistry()
}

// Add runs the element-wise addition kernel on two tensors resident on
// the WebGPU device and returns the sum as a new tensor on that device.
func Add(ctx *Context, src KernelSource, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return internalext.Add(ctx, src, a, b)
}
