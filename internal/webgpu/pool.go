//go:build windows

package webgpu

import (
	"math/bits"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// maxPooledPerClass bounds the idle buffers kept per size class.
const maxPooledPerClass = 8

// stagingPool recycles MapRead|CopyDst buffers used for readback. Buffers
// are bucketed by power-of-two size class so a launch can reuse any buffer
// at least as large as its output.
type stagingPool struct {
	device *wgpu.Device

	mu      sync.Mutex
	classes map[uint64][]*wgpu.Buffer

	hits, misses uint64
}

func newStagingPool(device *wgpu.Device) *stagingPool {
	return &stagingPool{device: device, classes: make(map[uint64][]*wgpu.Buffer)}
}

// sizeClass rounds size up to a power of two, at least one word.
func sizeClass(size uint64) uint64 {
	if size <= wordSize {
		return wordSize
	}
	return 1 << bits.Len64(size-1)
}

// acquire returns an unmapped staging buffer of at least size bytes and its
// class size.
func (p *stagingPool) acquire(size uint64) (*wgpu.Buffer, uint64) {
	class := sizeClass(size)

	p.mu.Lock()
	if free := p.classes[class]; len(free) > 0 {
		b := free[len(free)-1]
		p.classes[class] = free[:len(free)-1]
		p.hits++
		p.mu.Unlock()
		return b, class
	}
	p.misses++
	p.mu.Unlock()

	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  class,
	}), class
}

// release returns an unmapped buffer to its class, or frees it when the
// class is full.
func (p *stagingPool) release(b *wgpu.Buffer, class uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.classes[class]) >= maxPooledPerClass {
		b.Release()
		return
	}
	p.classes[class] = append(p.classes[class], b)
}

// clear frees every pooled buffer.
func (p *stagingPool) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for class, free := range p.classes {
		for _, b := range free {
			b.Release()
		}
		delete(p.classes, class)
	}
}

// stats returns pool hits and misses.
func (p *stagingPool) stats() (hits, misses uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits, p.misses
}
