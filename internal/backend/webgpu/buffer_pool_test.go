package webgpu

import (
	"testing"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/seam-ml/seam/internal/tensor"
)

// poolStats is a helper struct for cleaner stats access in tests.
type poolStats struct {
	allocated   uint64
	released    uint64
	hits        uint64
	misses      uint64
	pooledCount int
}

// getPoolStats returns pool statistics in a structured format.
func getPoolStats(pool *BufferPool) poolStats {
	allocated, released, hits, misses, pooledCount := pool.Stats()
	return poolStats{
		allocated:   allocated,
		released:    released,
		hits:        hits,
		misses:      misses,
		pooledCount: pooledCount,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		size uint64
		want sizeClass
	}{
		{16, smallClass},
		{smallThreshold - 1, smallClass},
		{smallThreshold, mediumClass},
		{mediumThreshold - 1, mediumClass},
		{mediumThreshold, largeClass},
		{16 * 1024 * 1024, largeClass},
	}

	for _, tt := range tests {
		if got := classify(tt.size); got != tt.want {
			t.Errorf("classify(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestBufferPoolAcquireRelease(t *testing.T) {
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}

	backend, err := New()
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	defer backend.Release()

	pool := backend.bufferPool

	size := uint64(1024)
	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc

	buffer1 := pool.Acquire(size, usage)

	stats := getPoolStats(pool)
	if stats.allocated != 1 {
		t.Errorf("Expected 1 allocation, got %d", stats.allocated)
	}
	if stats.misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.misses)
	}
	if stats.hits != 0 {
		t.Errorf("Expected 0 hits, got %d", stats.hits)
	}

	// Release it back and acquire again: the pool should satisfy the
	// second request without allocating.
	pool.Release(buffer1, size, usage)

	stats = getPoolStats(pool)
	if stats.pooledCount != 1 {
		t.Errorf("Expected 1 pooled buffer, got %d", stats.pooledCount)
	}

	buffer2 := pool.Acquire(size, usage)

	stats = getPoolStats(pool)
	if stats.hits != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.hits)
	}
	if stats.allocated != 1 {
		t.Errorf("Expected 1 allocation after reuse, got %d", stats.allocated)
	}
	if stats.pooledCount != 0 {
		t.Errorf("Expected empty pool after reuse, got %d", stats.pooledCount)
	}

	buffer2.Release()
}

func TestBufferPoolUsageMismatch(t *testing.T) {
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}

	backend, err := New()
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	defer backend.Release()

	pool := backend.bufferPool

	size := uint64(1024)
	usage1 := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc
	usage2 := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst

	buf1 := pool.Acquire(size, usage1)
	pool.Release(buf1, size, usage1)

	// A pooled buffer without the requested usage flags must not be reused.
	buf2 := pool.Acquire(size, usage2)

	stats := getPoolStats(pool)
	if stats.hits != 0 {
		t.Errorf("Expected 0 hits for different usage, got %d", stats.hits)
	}
	if stats.misses != 2 {
		t.Errorf("Expected 2 misses (initial + mismatch), got %d", stats.misses)
	}

	buf2.Release()
}

func TestBufferPoolMaxSize(t *testing.T) {
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}

	backend, err := New()
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	defer backend.Release()

	pool := backend.bufferPool

	size := uint64(256)
	usage := wgpu.BufferUsageStorage

	// Hold more buffers than one size class can pool, then return them
	// all; releases past the cap must free immediately.
	buffers := make([]*wgpu.Buffer, 0, maxPoolSize+5)
	for i := 0; i < maxPoolSize+5; i++ {
		buffers = append(buffers, pool.Acquire(size, usage))
	}
	for _, buffer := range buffers {
		pool.Release(buffer, size, usage)
	}

	stats := getPoolStats(pool)
	if stats.pooledCount != maxPoolSize {
		t.Errorf("Pool holds %d buffers, cap is %d", stats.pooledCount, maxPoolSize)
	}
	if stats.released != uint64(maxPoolSize+5) {
		t.Errorf("Expected %d releases recorded, got %d", maxPoolSize+5, stats.released)
	}
}

func TestBackendMemoryStats(t *testing.T) {
	// The trackers run without a device.
	backend := &Backend{bufferPool: &BufferPool{}}

	stats := backend.MemoryStats()
	if stats.TotalAllocatedBytes != 0 {
		t.Errorf("Expected 0 total allocated, got %d", stats.TotalAllocatedBytes)
	}
	if stats.ActiveBuffers != 0 {
		t.Errorf("Expected 0 active buffers, got %d", stats.ActiveBuffers)
	}

	backend.trackBufferAllocation(1024)
	backend.trackBufferAllocation(2048)

	stats = backend.MemoryStats()
	if stats.TotalAllocatedBytes != 3072 {
		t.Errorf("Expected 3072 total allocated, got %d", stats.TotalAllocatedBytes)
	}
	if stats.ActiveBuffers != 2 {
		t.Errorf("Expected 2 active buffers, got %d", stats.ActiveBuffers)
	}
	if stats.PeakMemoryBytes != 3072 {
		t.Errorf("Expected 3072 peak memory, got %d", stats.PeakMemoryBytes)
	}

	backend.trackBufferRelease(1024)

	stats = backend.MemoryStats()
	if stats.TotalAllocatedBytes != 2048 {
		t.Errorf("Expected 2048 total allocated after release, got %d", stats.TotalAllocatedBytes)
	}
	if stats.ActiveBuffers != 1 {
		t.Errorf("Expected 1 active buffer after release, got %d", stats.ActiveBuffers)
	}
	if stats.PeakMemoryBytes != 3072 {
		t.Errorf("Peak memory should not drop on release, got %d", stats.PeakMemoryBytes)
	}
}

func TestRunKernelMemoryStats(t *testing.T) {
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}

	backend, err := New()
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	defer backend.Release()

	input := newFloat32(t, tensor.Shape{4}, []float32{1, 2, 3, 4})

	if _, err := backend.RunKernel("double", doubleKernel,
		[]*tensor.RawTensor{input}, tensor.Shape{4}, [3]uint32{1, 1, 1}); err != nil {
		t.Fatalf("RunKernel failed: %v", err)
	}

	stats := backend.MemoryStats()
	if stats.ActiveBuffers != 0 {
		t.Errorf("Expected all input buffers released, %d still active", stats.ActiveBuffers)
	}
	if stats.PeakMemoryBytes == 0 {
		t.Error("Expected nonzero peak memory after a dispatch")
	}
	// Output and staging buffers go through the pool.
	if stats.PoolAllocated < 2 {
		t.Errorf("Expected at least 2 pool allocations, got %d", stats.PoolAllocated)
	}
	if stats.PoolReleased < 2 {
		t.Errorf("Expected at least 2 pool releases, got %d", stats.PoolReleased)
	}
	if stats.PooledBuffers == 0 {
		t.Error("Expected buffers held in the pool after dispatch")
	}

	// A second identical dispatch should reuse pooled buffers.
	if _, err := backend.RunKernel("double", doubleKernel,
		[]*tensor.RawTensor{input}, tensor.Shape{4}, [3]uint32{1, 1, 1}); err != nil {
		t.Fatalf("second RunKernel failed: %v", err)
	}

	stats = backend.MemoryStats()
	if stats.PoolHits == 0 {
		t.Error("Expected pool hits on the second dispatch")
	}
}
