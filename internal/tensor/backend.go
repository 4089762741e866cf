package tensor

// Backend is the compute contract of the runtime. Backends execute the
// element-wise operations the Tensor facade exposes.
//
// Implementations:
//   - CPU: pure Go with broadcasting and in-place fast paths
//   - WebGPU: unified-memory GPU dispatch (see internal/backend/webgpu)
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
