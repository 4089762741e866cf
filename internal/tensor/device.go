package tensor

// Device identifies the compute device a tensor is allocated for.
type Device int

// Supported compute devices. WebGPU is the unified-memory accelerator the
// seam extension mechanism targets; the rest are reserved for future
// backends.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}
