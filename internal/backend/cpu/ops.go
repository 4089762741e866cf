package cpu

import (
	"fmt"

	"github.com/seam-ml/seam/internal/tensor"
)

// binOp selects the element-wise operation for the shared apply loops.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

// number covers the element types the CPU backend computes on.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// applyInto computes dst = a op b element by element. All three tensors must
// share the same shape. dst may alias a for in-place execution.
func applyInto(dst, a, b *tensor.RawTensor, op binOp, name string) {
	switch a.DType() {
	case tensor.Float32:
		applySame(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), op)
	case tensor.Float64:
		applySame(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), op)
	case tensor.Int32:
		applySame(dst.AsInt32(), a.AsInt32(), b.AsInt32(), op)
	case tensor.Int64:
		applySame(dst.AsInt64(), a.AsInt64(), b.AsInt64(), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}
}

func applySame[T number](dst, a, b []T, op binOp) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case opSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case opMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case opDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

// applyBroadcast computes dst = a op b where a and b broadcast to outShape.
func applyBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape, op binOp, name string) {
	switch a.DType() {
	case tensor.Float32:
		broadcastLoop(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Float64:
		broadcastLoop(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Int32:
		broadcastLoop(dst.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Int64:
		broadcastLoop(dst.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}
}

func broadcastLoop[T number](dst, a, b []T, aShape, bShape, outShape tensor.Shape, op binOp) {
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	idx := make([]int, len(outShape))
	for i := range dst {
		aIdx, bIdx := 0, 0
		for d := range idx {
			aIdx += idx[d] * aStrides[d]
			bIdx += idx[d] * bStrides[d]
		}

		switch op {
		case opAdd:
			dst[i] = a[aIdx] + b[bIdx]
		case opSub:
			dst[i] = a[aIdx] - b[bIdx]
		case opMul:
			dst[i] = a[aIdx] * b[bIdx]
		case opDiv:
			dst[i] = a[aIdx] / b[bIdx]
		}

		// Advance the multi-dimensional index (row-major order).
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// broadcastStrides returns strides for a tensor of shape s viewed as
// outShape: stretched dimensions (size 1) and missing leading dimensions
// get stride 0 so the same element repeats.
func broadcastStrides(s, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	srcStrides := s.ComputeStrides()
	offset := len(outShape) - len(s)

	for d := range outShape {
		srcDim := d - offset
		if srcDim < 0 || s[srcDim] == 1 {
			strides[d] = 0
			continue
		}
		strides[d] = srcStrides[srcDim]
	}
	return strides
}
