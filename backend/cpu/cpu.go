// Copyright 2025 Seam ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/seam-ml/seam/internal/backend/cpu"
	"github.com/seam-ml/seam/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go implementations of the element-wise
// tensor operations with NumPy-compatible broadcasting.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/seam-ml/seam/backend/cpu"
//	    "github.com/seam-ml/seam/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
