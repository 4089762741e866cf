// Copyright 2025 Seam ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU device layer for GPU-accelerated
// compute kernels.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (via Dawn/D3D12)
//   - macOS (via Dawn/Metal)
//   - Linux (via Dawn/Vulkan)
//
// The device exposes unified host-visible memory: tensor data is uploaded
// into GPU storage buffers and results are read back through the shared
// command queue, which is also the synchronization point for dispatched
// kernels.
//
// Example:
//
//	import (
//	    "github.com/seam-ml/seam/backend/webgpu"
//	    "github.com/seam-ml/seam/ext"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    registry := ext.NewRegistry()
//	    registry.RegisterAdd(ext.KernelSource{Path: "kernels/add.wgsl"})
//	}
package webgpu

import (
	internalwebgpu "github.com/seam-ml/seam/internal/backend/webgpu"
)

// Backend represents the WebGPU device used to compile and dispatch
// compute kernels.
type Backend = internalwebgpu.Backend

// MemoryStats reports GPU buffer allocation counters for a Backend.
type MemoryStats = internalwebgpu.MemoryStats

// New creates a new WebGPU backend.
//
// This function initializes the WebGPU device and returns a backend
// ready for kernel dispatch. Call Release() when done to free GPU resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// This function attempts to initialize a WebGPU adapter to verify
// that a compatible GPU and drivers are present. It's useful for
// graceful fallback to CPU execution when GPU is not available.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    defer gpu.Release()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
