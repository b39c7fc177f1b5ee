// Package manual backs pressure blocks with off-heap buffers from alloc.
// Memory held here is invisible to the Go runtime, so the sawtooth is exactly
// what the kernel sees: no GC pacing, no deferred reclamation.
package manual

import (
	"github.com/shivam-909/memstress/alloc"
	"github.com/shivam-909/memstress/internal/pressure"
)

type buffers struct{}

func New() pressure.Buffers {
	return buffers{}
}

func (buffers) Alloc(size int) []byte {
	return alloc.Alloc(size)
}

func (buffers) Free(buf []byte) {
	alloc.Free(buf)
}

func (buffers) InUse() int64 {
	return alloc.NumAllocBytes()
}

// Settle is a no-op: munmap has already returned each freed block to the
// kernel by the time the tracker bottoms out.
func (buffers) Settle() {}
