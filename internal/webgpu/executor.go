//go:build windows

// Package webgpu runs 32-bit strided kernels as WebGPU compute shaders.
//
// Launches whose kernel has no WGSL form, whose byte offsets or strides are
// not word aligned, or whose geometry exceeds the default device limits are
// handed to a fallback executor.
package webgpu

import (
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/logx"
	"github.com/born-ml/strided/internal/tensor"
)

const (
	wordSize   = 4
	paramsSize = 6 * 4 * wordSize // six vec4<u32>
)

// Executor runs launches on a WebGPU device.
type Executor struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	fallback launch.Executor
	staging  *stagingPool

	mu        sync.RWMutex
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
}

// New opens the default high performance adapter. Launches the device
// cannot run go to fallback.
// Returns an error if WebGPU is not available or initialization fails.
func New(fallback launch.Executor) (e *Executor, err error) {
	// The native library panics when it cannot be loaded.
	defer func() {
		if r := recover(); r != nil {
			e = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to create instance: %w", err)
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", err)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Executor{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		fallback:  fallback,
		staging:   newStagingPool(device),
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
	}, nil
}

// IsAvailable checks if a WebGPU adapter can be opened on this system.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// Name returns the executor name.
func (e *Executor) Name() string { return "webgpu" }

// Run executes l on the device, or on the fallback executor when the device
// cannot run it. Device errors are reported as launch faults.
func (e *Executor) Run(l launch.Launch) (err error) {
	sh, ok := shaders[l.Kernel.Name]
	if !ok || !wordAligned(l.Args.In, l.Args.InStride) || !wordAligned(l.Args.Out, l.Args.OutStride) ||
		(sh.aux && !wordAligned(l.Args.Aux, l.Args.AuxStride)) || !fitsLimits(l.Grid, l.Block) {
		return e.fallback.Run(l)
	}
	if l.Grid.Size() == 0 || l.Extent.Size() == 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &launch.Fault{Kernel: l.Kernel.Name, Err: fmt.Errorf("webgpu: %v", r)}
		}
	}()
	if err := e.dispatch(l, sh); err != nil {
		return &launch.Fault{Kernel: l.Kernel.Name, Err: err}
	}
	return nil
}

func (e *Executor) dispatch(l launch.Launch, sh shader) error {
	name := fmt.Sprintf("%s_%dx%dx%d", l.Kernel.Name, l.Block.X, l.Block.Y, l.Block.Z)
	pipeline := e.getOrCreatePipeline(name, e.compileShader(name, sh.source(l.Block)))

	in := e.createBuffer(l.Args.In.Data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer in.Release()
	out := e.createBuffer(l.Args.Out.Data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer out.Release()
	params := e.createUniformBuffer(encodeParams(l))
	defer params.Release()

	entries := []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, in, 0, paddedSize(len(l.Args.In.Data))),
		wgpu.BufferBindingEntry(1, out, 0, paddedSize(len(l.Args.Out.Data))),
		wgpu.BufferBindingEntry(2, params, 0, paramsSize),
	}
	if sh.aux {
		aux := e.createBuffer(l.Args.Aux.Data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		defer aux.Release()
		entries = append(entries, wgpu.BufferBindingEntry(3, aux, 0, paddedSize(len(l.Args.Aux.Data))))
	}

	bindGroup := e.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), entries)
	defer bindGroup.Release()

	encoder := e.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	//nolint:gosec // G115: grid dimensions are checked against the device limits.
	pass.DispatchWorkgroups(uint32(l.Grid.X), uint32(l.Grid.Y), uint32(l.Grid.Z))
	pass.End()
	e.queue.Submit(encoder.Finish(nil))

	result, err := e.readBuffer(out, paddedSize(len(l.Args.Out.Data)))
	if err != nil {
		return err
	}
	copy(l.Args.Out.Data, result)
	logx.Logger().Debug("webgpu dispatch", "kernel", l.Kernel.Name, "grid", l.Grid, "block", l.Block)
	return nil
}

// Release releases all WebGPU resources.
func (e *Executor) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	hits, misses := e.staging.stats()
	logx.Logger().Debug("webgpu release", "staging_hits", hits, "staging_misses", misses)
	e.staging.clear()
	for name, p := range e.pipelines {
		p.Release()
		delete(e.pipelines, name)
	}
	for name, s := range e.shaders {
		s.Release()
		delete(e.shaders, name)
	}
	if e.queue != nil {
		e.queue.Release()
		e.queue = nil
	}
	if e.device != nil {
		e.device.Release()
		e.device = nil
	}
	if e.adapter != nil {
		e.adapter.Release()
		e.adapter = nil
	}
	if e.instance != nil {
		e.instance.Release()
		e.instance = nil
	}
}

// compileShader compiles WGSL code into a cached ShaderModule.
func (e *Executor) compileShader(name, code string) *wgpu.ShaderModule {
	e.mu.RLock()
	if s, ok := e.shaders[name]; ok {
		e.mu.RUnlock()
		return s
	}
	e.mu.RUnlock()

	s := e.device.CreateShaderModuleWGSL(code)

	e.mu.Lock()
	e.shaders[name] = s
	e.mu.Unlock()
	return s
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (e *Executor) getOrCreatePipeline(name string, s *wgpu.ShaderModule) *wgpu.ComputePipeline {
	e.mu.RLock()
	if p, ok := e.pipelines[name]; ok {
		e.mu.RUnlock()
		return p
	}
	e.mu.RUnlock()

	p := e.device.CreateComputePipelineSimple(nil, s, "main")

	e.mu.Lock()
	e.pipelines[name] = p
	e.mu.Unlock()
	return p
}

// createBuffer creates a storage buffer holding data, padded to whole words.
func (e *Executor) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := paddedSize(len(data))
	buffer := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mapped := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mapped), size), data)
	buffer.Unmap()
	return buffer
}

// createUniformBuffer creates a uniform buffer rounded up to 16 bytes.
func (e *Executor) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := (uint64(len(data)) + 15) &^ 15
	buffer := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mapped := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mapped), size), data)
	buffer.Unmap()
	return buffer
}

// readBuffer copies a storage buffer back to host memory through a pooled
// staging buffer.
func (e *Executor) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging, class := e.staging.acquire(size)
	defer e.staging.release(staging, class)

	encoder := e.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	e.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(e.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}
	mapped := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	result := append([]byte(nil), unsafe.Slice((*byte)(mapped), size)...)
	staging.Unmap()
	return result, nil
}

// encodeParams lays out the Params uniform: offsets (in, aux, out, axis),
// the three stride vectors, the tile input extents and the launch extent.
// Offsets and strides are converted from bytes to words.
func encodeParams(l launch.Launch) []byte {
	a := l.Args
	words := []uint{
		a.In.Offset / wordSize, a.Aux.Offset / wordSize, a.Out.Offset / wordSize, a.Axis,
		a.InStride.X / wordSize, a.InStride.Y / wordSize, a.InStride.Z / wordSize, a.InStride.W / wordSize,
		a.AuxStride.X / wordSize, a.AuxStride.Y / wordSize, a.AuxStride.Z / wordSize, a.AuxStride.W / wordSize,
		a.OutStride.X / wordSize, a.OutStride.Y / wordSize, a.OutStride.Z / wordSize, a.OutStride.W / wordSize,
		max(a.InDims.X, 1), max(a.InDims.Y, 1), max(a.InDims.Z, 1), max(a.InDims.W, 1),
		l.Extent.X, l.Extent.Y, l.Extent.Z, 0,
	}
	buf := make([]byte, paramsSize)
	for i, w := range words {
		//nolint:gosec // G115: offsets and extents of device buffers fit in 32 bits.
		binary.LittleEndian.PutUint32(buf[i*wordSize:], uint32(w))
	}
	return buf
}

func wordAligned(b tensor.Buffer, s tensor.Vec4) bool {
	return b.Offset%wordSize == 0 && s.X%wordSize == 0 && s.Y%wordSize == 0 && s.Z%wordSize == 0
}

func paddedSize(n int) uint64 {
	//nolint:gosec // G115: n is a slice length.
	return max(uint64(n+wordSize-1)&^(wordSize-1), wordSize)
}

var _ launch.Executor = (*Executor)(nil)
