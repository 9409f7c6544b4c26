// Package cpu exposes the privileged amd64 instructions used by the kernel.
// Every function without a body is implemented in cpu_amd64.s and faults when
// called outside ring 0.
package cpu

var (
	cpuidFn = ID
)

const (
	// cpuidFeatPSE is the EDX bit reported by CPUID leaf 1 when the CPU
	// supports large (2Mb) pages.
	cpuidFeatPSE = 1 << 3

	// cr3AddrMask selects the physical address of the root page table from
	// the value stored in CR3.
	cr3AddrMask = uintptr(0x000ffffffffff000)
)

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// InterruptsEnabled returns true if the IF flag is set in RFLAGS.
func InterruptsEnabled() bool

// Halt stops instruction execution.
func Halt()

// FlushTLBEntry invalidates the TLB entry for a particular virtual address.
func FlushTLBEntry(virtAddr uintptr)

// SwitchPDT loads the supplied value into CR3. Loading the value that is
// already active flushes all non-global TLB entries.
func SwitchPDT(pdtPhysAddr uintptr)

// ReadCR3 returns the raw contents of the CR3 register, including the PWT and
// PCD flag bits.
func ReadCR3() uintptr

// ActivePDT returns the physical address of the currently active page table.
func ActivePDT() uintptr {
	return ReadCR3() & cr3AddrMask
}

// ID returns information about the CPU and its features. It
// is implemented as a CPUID instruction with EAX=leaf and
// returns the values in EAX, EBX, ECX and EDX.
func ID(leaf uint32) (uint32, uint32, uint32, uint32)

// SupportsHugePages returns true if the CPU can map 2Mb pages from a level 2
// page table entry.
func SupportsHugePages() bool {
	_, _, _, edx := cpuidFn(1)
	return edx&cpuidFeatPSE != 0
}
