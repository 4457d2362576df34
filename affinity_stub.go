//go:build !linux

package dispatch

// PinToCPU is a no-op outside Linux; UseOSThreads still locks each
// worker to its own OS thread.
func PinToCPU(int) error { return nil }
