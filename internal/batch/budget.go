package batch

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/mem"
)

// DefaultHardCap bounds the worker pool regardless of how generous the
// memory budget is.
const DefaultHardCap = 64

// WorkerCount resolves the pool size for a batch. The count never
// exceeds the CPU count, the memory budget, or the hard cap, and is
// never below one. A ceiling too small for even one worker's estimate
// is an error rather than a silent clamp.
func WorkerCount(cpus int, memCeiling, perWorker uint64, hardCap int) (int, error) {
	if cpus < 1 {
		cpus = 1
	}
	if hardCap < 1 {
		hardCap = DefaultHardCap
	}
	n := cpus
	if memCeiling > 0 && perWorker > 0 {
		if memCeiling < perWorker {
			return 0, fmt.Errorf("%w: ceiling %d bytes, estimate %d bytes per worker",
				ErrResourceExhausted, memCeiling, perWorker)
		}
		if byBudget := int(memCeiling / perWorker); byBudget < n {
			n = byBudget
		}
	}
	if n > hardCap {
		n = hardCap
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}

// DetectMemory returns the machine's available memory in bytes, or zero
// when detection fails so the budgeter falls back to CPU count alone.
func DetectMemory() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Available
}

// DetectCPUs returns the number of usable logical CPUs.
func DetectCPUs() int { return runtime.NumCPU() }
