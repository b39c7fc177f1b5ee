package alloc

import (
	"fmt"
	"testing"
)

func BenchmarkAllocFree(b *testing.B) {
	sizes := []int{4 << 10, 1 << 20, 16 << 20}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Mapped_%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				buf := Alloc(size)
				buf[0] = 1
				Free(buf)
			}
		})

		b.Run(fmt.Sprintf("GoHeap_%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				buf := make([]byte, size)
				buf[0] = 1
				_ = buf
			}
		})
	}
}
