package ext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seam-ml/seam/internal/backend/cpu"
	"github.com/seam-ml/seam/internal/backend/webgpu"
	"github.com/seam-ml/seam/internal/tensor"
)

// shippedKernel is the WGSL file the repository ships for add_tensors.
const shippedKernel = "../../kernels/add.wgsl"

func newRaw(t *testing.T, device tensor.Device, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{len(data)}, tensor.Float32, device)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func TestKernelSourceLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kernel.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}"), 0o644))

	source, err := KernelSource{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", source)
}

func TestKernelSourceLoadEmptyPath(t *testing.T) {
	_, err := KernelSource{}.Load()
	assert.Error(t, err)
}

func TestKernelSourceLoadMissingFile(t *testing.T) {
	_, err := KernelSource{Path: filepath.Join(t.TempDir(), "missing.wgsl")}.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKernelSourceLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	_, err := KernelSource{Path: path}.Load()
	assert.Error(t, err)
}

func TestShippedKernelLoads(t *testing.T) {
	source, err := KernelSource{Path: shippedKernel}.Load()
	require.NoError(t, err)
	assert.Contains(t, source, "fn main")
	assert.Contains(t, source, "@workgroup_size(256)")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Ops())

	called := false
	r.Register("noop", func(_ *Context, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		called = true
		return inputs, nil
	})

	_, ok := r.Get("noop")
	assert.True(t, ok)
	assert.Equal(t, []string{"noop"}, r.Ops())

	_, err := r.Execute(&Context{}, "noop", nil)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRegistryUnknownOp(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(&Context{}, "nope", nil)
	assert.Error(t, err)
}

func TestAddRejectsMissingContext(t *testing.T) {
	a := newRaw(t, tensor.WebGPU, []float32{1})
	b := newRaw(t, tensor.WebGPU, []float32{2})

	_, err := Add(nil, KernelSource{Path: shippedKernel}, a, b)
	assert.Error(t, err)

	_, err = Add(&Context{}, KernelSource{Path: shippedKernel}, a, b)
	assert.Error(t, err)
}

func TestAddRejectsWrongDevice(t *testing.T) {
	ctx := &Context{GPU: &webgpu.Backend{}}

	onCPU := newRaw(t, tensor.CPU, []float32{1, 2, 3})
	onGPU := newRaw(t, tensor.WebGPU, []float32{1, 2, 3})

	_, err := Add(ctx, KernelSource{Path: shippedKernel}, onCPU, onGPU)
	assert.ErrorIs(t, err, ErrWrongDevice)

	_, err = Add(ctx, KernelSource{Path: shippedKernel}, onGPU, onCPU)
	assert.ErrorIs(t, err, ErrWrongDevice)
}

func TestAddRejectsShapeMismatch(t *testing.T) {
	ctx := &Context{GPU: &webgpu.Backend{}}

	a := newRaw(t, tensor.WebGPU, []float32{1, 2, 3})
	b := newRaw(t, tensor.WebGPU, []float32{1, 2})

	_, err := Add(ctx, KernelSource{Path: shippedKernel}, a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAddRejectsNonFloat32(t *testing.T) {
	ctx := &Context{GPU: &webgpu.Backend{}}

	a, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int32, tensor.WebGPU)
	require.NoError(t, err)
	b, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int32, tensor.WebGPU)
	require.NoError(t, err)

	_, err = Add(ctx, KernelSource{Path: shippedKernel}, a, b)
	assert.ErrorIs(t, err, ErrDType)
}

func TestAddPropagatesMissingKernelFile(t *testing.T) {
	ctx := &Context{GPU: &webgpu.Backend{}}

	a := newRaw(t, tensor.WebGPU, []float32{1, 2})
	b := newRaw(t, tensor.WebGPU, []float32{3, 4})

	_, err := Add(ctx, KernelSource{Path: filepath.Join(t.TempDir(), "gone.wgsl")}, a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAddGPU(t *testing.T) {
	if !webgpu.IsAvailable() {
		t.Skip("WebGPU not available")
	}

	gpu, err := webgpu.New()
	require.NoError(t, err)
	defer gpu.Release()

	ctx := &Context{GPU: gpu}

	a := newRaw(t, tensor.WebGPU, []float32{1, 2, 3})
	b := newRaw(t, tensor.WebGPU, []float32{4, 5, 6})

	result, err := Add(ctx, KernelSource{Path: shippedKernel}, a, b)
	require.NoError(t, err)

	assert.Equal(t, tensor.WebGPU, result.Device())
	assert.Equal(t, []float32{5, 7, 9}, result.AsFloat32())

	// Inputs are never mutated; the sum lands in a fresh tensor.
	assert.Equal(t, []float32{1, 2, 3}, a.AsFloat32())
	assert.Equal(t, []float32{4, 5, 6}, b.AsFloat32())
}

func TestAddGPUThroughRegistry(t *testing.T) {
	if !webgpu.IsAvailable() {
		t.Skip("WebGPU not available")
	}

	gpu, err := webgpu.New()
	require.NoError(t, err)
	defer gpu.Release()

	r := NewRegistry()
	r.RegisterAdd(KernelSource{Path: shippedKernel})

	a := newRaw(t, tensor.WebGPU, []float32{1, 2, 3, 4})
	b := newRaw(t, tensor.WebGPU, []float32{10, 20, 30, 40})

	outputs, err := r.Execute(&Context{GPU: gpu}, AddOpName, []*tensor.RawTensor{a, b})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, []float32{11, 22, 33, 44}, outputs[0].AsFloat32())
}

// The extension's result must be consumable by ordinary framework
// operations.
func TestAddGPUResultVisibleToFramework(t *testing.T) {
	if !webgpu.IsAvailable() {
		t.Skip("WebGPU not available")
	}

	gpu, err := webgpu.New()
	require.NoError(t, err)
	defer gpu.Release()

	ctx := &Context{GPU: gpu}

	a := newRaw(t, tensor.WebGPU, []float32{1, 2})
	b := newRaw(t, tensor.WebGPU, []float32{3, 4})

	sum, err := Add(ctx, KernelSource{Path: shippedKernel}, a, b)
	require.NoError(t, err)

	ones := newRaw(t, tensor.CPU, []float32{1, 1})
	followUp := cpu.New().Add(sum, ones)
	assert.Equal(t, []float32{5, 7}, followUp.AsFloat32())
}

func TestAddLargeGPU(t *testing.T) {
	if !webgpu.IsAvailable() {
		t.Skip("WebGPU not available")
	}

	gpu, err := webgpu.New()
	require.NoError(t, err)
	defer gpu.Release()

	// Spans multiple workgroups.
	size := 1000
	aData := make([]float32, size)
	bData := make([]float32, size)
	for i := range aData {
		aData[i] = float32(i)
		bData[i] = float32(i * 2)
	}

	a := newRaw(t, tensor.WebGPU, aData)
	b := newRaw(t, tensor.WebGPU, bData)

	result, err := Add(&Context{GPU: gpu}, KernelSource{Path: shippedKernel}, a, b)
	require.NoError(t, err)

	actual := result.AsFloat32()
	for i := range aData {
		if actual[i] != float32(i*3) {
			t.Fatalf("result[%d] = %v, want %v", i, actual[i], float32(i*3))
		}
	}
}
