package pressure

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
)

// report writes the one-line-per-iteration total, in GiB. The byte-exact
// format of this line is the tool's sole stdout interface; everything else
// goes through the structured logger.
func (t *Tracker) report() {
	fmt.Fprintf(t.out, "Total size: %.2f\n", float64(t.total)/float64(1<<30))
}

// logPhase records a watermark crossing together with allocator and runtime
// heap numbers, for correlating the sawtooth with what external observers see.
func (t *Tracker) logPhase(phase string) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	t.log.Info("phase change",
		"phase", phase,
		"cycle", t.cycle,
		"held", humanize.IBytes(uint64(t.total)),
		"blocks", t.blocks,
		"inUse", humanize.IBytes(uint64(t.bufs.InUse())),
		"heapAlloc", humanize.IBytes(ms.HeapAlloc),
		"heapSys", humanize.IBytes(ms.HeapSys),
	)
}

func (t *Tracker) logDrained() {
	t.log.Info("drained",
		"cycle", t.cycle,
		"inUse", humanize.IBytes(uint64(t.bufs.InUse())),
	)
}
