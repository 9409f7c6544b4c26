package vmm

import (
	"github.com/budde25/os/kernel/cpu"
	"github.com/budde25/os/kernel/mem"
)

var (
	// the following functions are mocked by tests as they fault when
	// called in user-mode.
	flushTLBEntryFn = cpu.FlushTLBEntry
	switchPDTFn     = cpu.SwitchPDT
	readCR3Fn       = cpu.ReadCR3
)

// Flush invalidates the TLB entry for the page that contains virtAddr.
func Flush(virtAddr mem.VirtualAddress) {
	flushTLBEntryFn(uintptr(virtAddr))
}

// FlushAll invalidates all non-global TLB entries by reloading CR3 with its
// current value.
func FlushAll() {
	switchPDTFn(readCR3Fn())
}
