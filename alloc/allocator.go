package alloc

import (
	"os"
	"sync/atomic"
	"unsafe"
)

var pageSize = os.Getpagesize() // typically 4096

// numBytes tracks the total length of all live mappings.
var numBytes atomic.Int64

func alignUp(n, align int) int {
	return (n + align - 1) & ^(align - 1)
}

// Alloc returns a buffer of length size backed by its own anonymous mapping.
// The mapping is invisible to the Go garbage collector: a buffer lives until
// it is passed to Free, and dropping the last reference without freeing it
// leaks the mapping.
//
// The mapping is rounded up to a whole number of pages. The full mapped
// length is exposed through cap so that Free can recover it.
func Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}

	mapped := alignUp(size, pageSize)
	p := mmap(mapped)

	numBytes.Add(int64(mapped))
	return unsafe.Slice((*byte)(p), mapped)[:size]
}

// Free unmaps a buffer previously returned by Alloc. Freeing a nil or empty
// buffer is a no-op. The buffer must not be used after Free returns.
func Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}

	buf = buf[:cap(buf)]
	munmap(unsafe.Pointer(&buf[0]), len(buf))
	numBytes.Add(-int64(len(buf)))
}

// NumAllocBytes reports the total mapped length of all live buffers.
func NumAllocBytes() int64 {
	return numBytes.Load()
}
