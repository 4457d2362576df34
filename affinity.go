//go:build linux

package dispatch

import (
	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling thread to a single CPU core. Used by
// workers started with Options.UseOSThreads.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
