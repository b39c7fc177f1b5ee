// Package standard backs pressure blocks with ordinary Go heap allocations.
// Freeing a block just drops the reference; the bytes only leave the process
// when the garbage collector decides to run and return memory to the OS, which
// is itself an interesting behavior to put in front of a memory observer.
package standard

import (
	"runtime"

	"github.com/shivam-909/memstress/internal/pressure"
)

type buffers struct {
	inUse int64
}

func New() pressure.Buffers {
	return &buffers{}
}

func (b *buffers) Alloc(size int) []byte {
	b.inUse += int64(size)
	return make([]byte, size)
}

func (b *buffers) Free(buf []byte) {
	b.inUse -= int64(len(buf))
}

func (b *buffers) InUse() int64 {
	return b.inUse
}

// Settle forces a collection at the trough so the low point of the sawtooth
// is visible to external accounting rather than hidden behind GC laziness.
func (b *buffers) Settle() {
	runtime.GC()
}
