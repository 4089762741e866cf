// Copyright 2025 Seam ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/seam-ml/seam/internal/backend/cpu"
	"github.com/seam-ml/seam/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	shape := raw.Shape()
	if !shape.Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", shape)
	}

	if raw.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}

	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}

	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}

	expected := 6 * 4 // 6 elements * 4 bytes (float32)
	if raw.ByteSize() != expected {
		t.Errorf("ByteSize() = %d, want %d", raw.ByteSize(), expected)
	}

	clone := raw.Clone()
	if clone == nil {
		t.Fatal("Clone() returned nil")
	}
	if !clone.Shape().Equal(raw.Shape()) {
		t.Errorf("Clone shape = %v, want %v", clone.Shape(), raw.Shape())
	}
}

// TestCreationFunctions verifies the high-level creation API.
func TestCreationFunctions(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	for _, v := range x.Data() {
		if v != 0 {
			t.Fatalf("Zeros: got %v, want 0", v)
		}
	}

	y := tensor.Ones[float32](tensor.Shape{2, 2}, backend)
	for _, v := range y.Data() {
		if v != 1 {
			t.Fatalf("Ones: got %v, want 1", v)
		}
	}

	z := tensor.Full[float32](tensor.Shape{3}, 2.5, backend)
	for _, v := range z.Data() {
		if v != 2.5 {
			t.Fatalf("Full: got %v, want 2.5", v)
		}
	}

	r := tensor.Rand[float32](tensor.Shape{8}, backend)
	for _, v := range r.Data() {
		if v < 0 || v >= 1 {
			t.Fatalf("Rand: got %v, want value in [0, 1)", v)
		}
	}
}

// TestTensorOps verifies element-wise operations through the public API.
func TestTensorOps(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	y, err := tensor.FromSlice([]float32{10, 20, 30, 40}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	sum := x.Add(y)
	want := []float32{11, 22, 33, 44}
	for i, v := range sum.Data() {
		if v != want[i] {
			t.Errorf("Add[%d] = %v, want %v", i, v, want[i])
		}
	}
}

// TestBroadcastShapes verifies the public broadcasting helper.
func TestBroadcastShapes(t *testing.T) {
	result, needsBroadcast, err := tensor.BroadcastShapes(tensor.Shape{2, 1}, tensor.Shape{2, 3})
	if err != nil {
		t.Fatalf("BroadcastShapes failed: %v", err)
	}
	if !result.Equal(tensor.Shape{2, 3}) {
		t.Errorf("BroadcastShapes = %v, want [2 3]", result)
	}
	if !needsBroadcast {
		t.Error("BroadcastShapes should report broadcasting for [2 1] vs [2 3]")
	}

	if _, _, err := tensor.BroadcastShapes(tensor.Shape{2}, tensor.Shape{3}); err == nil {
		t.Error("BroadcastShapes should fail for incompatible shapes")
	}
}
