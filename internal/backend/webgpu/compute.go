package webgpu

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/seam-ml/seam/internal/tensor"
)

// pipelineFor returns the cached compute pipeline for a kernel, compiling
// the WGSL source if it was never seen or if the source changed since the
// last call. Kernel sources are loaded from disk at call time, so the cache
// is keyed by content digest, not just name.
func (b *Backend) pipelineFor(name, source string) *wgpu.ComputePipeline {
	digest := sha256.Sum256([]byte(source))

	b.mu.RLock()
	entry, exists := b.kernels[name]
	if exists && entry.digest == digest {
		pipeline := entry.pipeline
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	// Re-check under the write lock.
	if entry, exists = b.kernels[name]; exists && entry.digest == digest {
		return entry.pipeline
	}

	if exists {
		// Source changed on disk, drop the stale compilation.
		entry.pipeline.Release()
		entry.shader.Release()
	}

	shader := b.device.CreateShaderModuleWGSL(source)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.kernels[name] = &kernelEntry{
		digest:   digest,
		shader:   shader,
		pipeline: pipeline,
	}
	return pipeline
}

// createBuffer creates a GPU storage buffer and uploads initial data
// through a mapped-at-creation range.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer with 16-byte alignment,
// which WGSL requires for uniform struct fields.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Storage buffers can't be mapped directly, so the copy goes through a
// staging buffer submitted on the shared queue; the blocking map is the
// host/GPU synchronization point.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := b.bufferPool.Acquire(size, wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst)
	defer b.bufferPool.Release(stagingBuffer, size, wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst)

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// RunKernel compiles WGSL source and executes it as a single compute pass.
//
// Binding convention: inputs occupy bindings 0..len(inputs)-1 in order, the
// output buffer takes the next binding, and a uniform holding the output
// element count takes the last one. The kernel's entry point must be named
// "main".
//
// The dispatch is submitted on the backend's shared queue and the result is
// read back before returning, so the returned tensor is immediately usable
// by other framework operations.
func (b *Backend) RunKernel(name, source string, inputs []*tensor.RawTensor, outShape tensor.Shape, workgroups [3]uint32) (*tensor.RawTensor, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("webgpu: kernel %q has no inputs", name)
	}
	for i, in := range inputs {
		if in.DType() != tensor.Float32 {
			return nil, fmt.Errorf("webgpu: only float32 is supported, input %d is %s", i, in.DType())
		}
	}
	if err := outShape.Validate(); err != nil {
		return nil, fmt.Errorf("webgpu: invalid output shape: %w", err)
	}
	if workgroups[0] == 0 || workgroups[1] == 0 || workgroups[2] == 0 {
		return nil, fmt.Errorf("webgpu: kernel %q dispatched with empty grid %v", name, workgroups)
	}

	pipeline := b.pipelineFor(name, source)

	// Upload input buffers.
	inputBuffers := make([]*wgpu.Buffer, len(inputs))
	for i, in := range inputs {
		inputBuffers[i] = b.createBuffer(in.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		b.trackBufferAllocation(uint64(in.ByteSize()))
	}
	defer func() {
		for i, buf := range inputBuffers {
			buf.Release()
			b.trackBufferRelease(uint64(inputs[i].ByteSize()))
		}
	}()

	numElements := outShape.NumElements()
	resultSize := uint64(numElements * tensor.Float32.Size())

	outputUsage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	bufferResult := b.bufferPool.Acquire(resultSize, outputUsage)
	defer b.bufferPool.Release(bufferResult, resultSize, outputUsage)

	// Params uniform: element count, padded to 16 bytes.
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(numElements))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	// Bind inputs, then output, then params.
	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, buf := range inputBuffers {
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, uint64(inputs[i].ByteSize())))
	}
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)), bufferResult, 0, resultSize))
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)+1), bufferParams, 0, 16))

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	// Single compute pass.
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(workgroups[0], workgroups[1], workgroups[2])
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	// Read result back from GPU.
	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}

	copy(result.Data(), resultData)
	return result, nil
}
