package pressure

import (
	"bytes"
	"errors"
	"testing"
)

// FuzzAccounting drives the tracker with an arbitrary grow/shrink schedule
// and verifies after every operation that:
// 1. The running total matches the sum of the linked blocks
// 2. The total never goes negative
// 3. The backing allocator holds exactly the total plus the sentinel
// 4. Shrinking an empty chain fails without touching the total
func FuzzAccounting(f *testing.F) {
	f.Add([]byte{0x01, 0x82, 0x03})
	f.Add([]byte{0x80})
	f.Add(bytes.Repeat([]byte{0x0f, 0x8f}, 32))
	f.Add(bytes.Repeat([]byte{0x01}, 64))

	f.Fuzz(func(t *testing.T, ops []byte) {
		tr, bufs, _ := newTestTracker()
		tr.unit = 4 << 10
		tr.lo = int64(8 * tr.unit)
		tr.hi = int64(64 * tr.unit)

		for i, op := range ops {
			if op&0x80 == 0 {
				// Low nibble picks a size in [1, 16] units.
				if err := tr.grow((1 + int(op&0x0f)) * tr.unit); err != nil {
					t.Fatalf("op %d: grow failed: %v", i, err)
				}
			} else {
				empty := tr.root.next == nil
				before := tr.total
				err := tr.shrink()
				if empty {
					if !errors.Is(err, ErrEmptyList) {
						t.Fatalf("op %d: shrink of empty chain: got %v, want ErrEmptyList", i, err)
					}
					if tr.total != before {
						t.Fatalf("op %d: failed shrink moved the total from %d to %d", i, before, tr.total)
					}
				} else if err != nil {
					t.Fatalf("op %d: shrink failed: %v", i, err)
				}
			}

			if tr.total < 0 {
				t.Fatalf("op %d: total went negative: %d", i, tr.total)
			}
			if got := tr.linkedTotal(); got != tr.total {
				t.Fatalf("op %d: total %d diverged from linked blocks %d", i, tr.total, got)
			}
			if bufs.InUse() != tr.total+sentinelSize {
				t.Fatalf("op %d: allocator holds %d bytes, want %d", i, bufs.InUse(), tr.total+sentinelSize)
			}
		}
	})
}
