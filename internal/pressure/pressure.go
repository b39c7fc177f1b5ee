package pressure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Watermarks bounding the hysteresis band. The tracker grows until the
// running total passes HiWatermark, shrinks until it drops below LoWatermark,
// and repeats, producing a sustained sawtooth of memory usage.
const (
	LoWatermark = int64(1) << 30
	HiWatermark = int64(16) << 30
)

const (
	blockUnit     = 1 << 20 // block sizes are drawn in whole MiB
	maxBlockUnits = 256
	sentinelSize  = 100
	fillByte      = 0xff

	// troughPause lets external memory accounting settle at the bottom of
	// each cycle. shrinkPause only keeps the shrink phase from being a pure
	// busy loop; its exact duration carries no meaning beyond being far
	// shorter than troughPause.
	troughPause = 5 * time.Second
	shrinkPause = 10 * time.Microsecond
)

// Each of these indicates an internal consistency bug, not a runtime
// condition; the drivers treat every one of them as fatal.
var (
	ErrDanglingRoot = errors.New("pressure: sentinel has no successor after insert")
	ErrEmptyList    = errors.New("pressure: no block to remove after the sentinel")
	ErrCorruptBlock = errors.New("pressure: block contents changed while linked")
)

// Buffers provides the raw memory behind blocks. Implementations need not be
// safe for concurrent use; the tracker is single-threaded.
type Buffers interface {
	// Alloc returns a writable buffer of exactly size bytes.
	Alloc(size int) []byte
	// Free releases a buffer previously returned by Alloc.
	Free(buf []byte)
	// InUse reports the bytes currently held from the underlying allocator.
	InUse() int64
	// Settle runs once each time the tracker bottoms out at the low
	// watermark, before the trough pause.
	Settle()
}

// Block is one allocated memory region: an owned buffer, its payload size,
// and the link to the next block in the chain.
type Block struct {
	size int
	buf  []byte
	sum  uint64
	next *Block
}

// Tracker is the whole state of the pressure loop: the sentinel-anchored
// block list, the running total of linked payload bytes, and the grow/shrink
// mode flag.
type Tracker struct {
	bufs Buffers

	root    *Block // permanent sentinel, never freed, never counted
	total   int64
	blocks  int
	growing bool
	cycle   int

	lo, hi         int64
	unit, maxUnits int

	rng   *rand.Rand
	sleep func(time.Duration)
	out   io.Writer
	log   *slog.Logger
}

func New(bufs Buffers) *Tracker {
	t := &Tracker{
		bufs:     bufs,
		growing:  true,
		lo:       LoWatermark,
		hi:       HiWatermark,
		unit:     blockUnit,
		maxUnits: maxBlockUnits,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sleep:    time.Sleep,
		out:      os.Stdout,
		log:      slog.Default(),
	}
	t.root = t.newBlock(sentinelSize)
	return t
}

// newBlock allocates a buffer of size bytes, fills it, and records a checksum
// of the fill so removal can detect the payload being written to while linked.
func (t *Tracker) newBlock(size int) *Block {
	buf := t.bufs.Alloc(size)
	for i := range buf {
		buf[i] = fillByte
	}
	return &Block{size: size, buf: buf, sum: xxhash.Sum64(buf)}
}

// insertAfterRoot splices blk immediately behind the sentinel, so the chain
// behaves as a stack: the most recently linked block is the first removed.
func (t *Tracker) insertAfterRoot(blk *Block) {
	blk.next = t.root.next
	t.root.next = blk
}

// removeAfterRoot unlinks and frees the block immediately behind the
// sentinel, returning its payload size. The tracker's total is untouched;
// the caller does the bookkeeping.
func (t *Tracker) removeAfterRoot() (int, error) {
	blk := t.root.next
	if blk == nil {
		return 0, ErrEmptyList
	}
	if sum := xxhash.Sum64(blk.buf); sum != blk.sum {
		return 0, fmt.Errorf("%w: %d byte block, checksum %016x, want %016x",
			ErrCorruptBlock, blk.size, sum, blk.sum)
	}
	t.root.next = blk.next
	t.bufs.Free(blk.buf)
	return blk.size, nil
}

func (t *Tracker) grow(size int) error {
	t.insertAfterRoot(t.newBlock(size))
	if t.root.next == nil {
		return ErrDanglingRoot
	}
	t.total += int64(size)
	t.blocks++
	if t.total > t.hi {
		t.growing = false
		t.logPhase("shrinking")
	}
	return nil
}

func (t *Tracker) shrink() error {
	size, err := t.removeAfterRoot()
	if err != nil {
		return err
	}
	t.total -= int64(size)
	t.blocks--
	if t.total < t.lo {
		t.growing = true
		t.cycle++
		t.bufs.Settle()
		t.logPhase("growing")
		t.sleep(troughPause)
	} else {
		t.sleep(shrinkPause)
	}
	return nil
}

// Step runs one iteration of the control loop: a single grow or shrink,
// followed by the per-iteration total report.
func (t *Tracker) Step() error {
	if t.growing {
		size := (1 + t.rng.IntN(t.maxUnits)) * t.unit
		if err := t.grow(size); err != nil {
			return err
		}
	} else {
		if err := t.shrink(); err != nil {
			return err
		}
	}
	t.report()
	return nil
}

// Run steps the tracker until ctx is cancelled or an invariant check fails.
// On cancellation the chain is drained first, so every block allocated
// through bufs has been freed back to it; only the sentinel survives.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return t.drain()
		default:
		}
		if err := t.Step(); err != nil {
			return err
		}
	}
}

func (t *Tracker) drain() error {
	t.log.Info("draining", "blocks", t.blocks)
	for t.root.next != nil {
		size, err := t.removeAfterRoot()
		if err != nil {
			return err
		}
		t.total -= int64(size)
		t.blocks--
		t.report()
	}
	if t.total != 0 {
		return fmt.Errorf("pressure: %d bytes still accounted for after drain", t.total)
	}
	t.logDrained()
	return nil
}
