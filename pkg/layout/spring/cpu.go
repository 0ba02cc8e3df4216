package spring

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// hasWideFloatUnits reports whether the CPU has the packed floating-point
// units the unrolled kernel is tuned for.
func hasWideFloatUnits() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpu.X86.HasSSE3 || cpu.X86.HasAVX2
	case "arm64":
		return cpu.ARM64.HasASIMD
	}
	return false
}

// selectKernel resolves the configured kernel kind.
func selectKernel(o *Options) kernel {
	switch o.Kernel {
	case KernelScalar:
		return scalarKernel{}
	case KernelUnrolled:
		return unrolledKernel{workers: o.workers()}
	}
	if hasWideFloatUnits() {
		return unrolledKernel{workers: o.workers()}
	}
	return scalarKernel{}
}
