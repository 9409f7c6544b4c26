package kmain

import (
	"unsafe"

	"github.com/budde25/os/kernel"
	"github.com/budde25/os/kernel/hal"
	"github.com/budde25/os/kernel/kfmt"
	"github.com/budde25/os/kernel/mem"
	"github.com/budde25/os/kernel/mem/vmm"
	"github.com/budde25/os/multiboot"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	// visitMemRegionsFn is overridden by tests.
	visitMemRegionsFn = multiboot.VisitMemRegions
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. It is invoked by the rt0 assembly code after enabling
// long mode with a minimal set of page tables that identity-map the first
// few megabytes of physical memory.
//
// The rt0 code passes the physical address of the multiboot info payload
// provided by the bootloader and the physical address of the region that is
// reserved for the page tables of the physical memory window.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr, pageTablesStart uintptr) {
	mapper := vmm.NewMapper()
	mapper.MapAllPhysicalMemory(mem.NewPhysicalAddress(uint64(pageTablesStart)))

	hal.InitTerminal()

	multiboot.SetInfoPtr(uintptr(mem.NewPhysicalAddress(uint64(multibootInfoPtr)).AsPtr()))
	logMemoryMap()

	mapper.DumpTables(hal.ActiveTerminal)

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating kfmt.Panic as dead-code and eliminating it.
	kfmt.Panic(errKmainReturned)
}

// logMemoryMap prints the memory regions reported by the bootloader and
// returns the amount of available memory as well as the part of it that lies
// beyond the physical memory window.
func logMemoryMap() (available, unmapped mem.Size) {
	kfmt.Printf("[kmain] system memory map:\n")

	visitor := func(region *multiboot.MemoryMapEntry) bool {
		kfmt.Printf("\t[0x%16x - 0x%16x], size: %10d, type: %s\n",
			region.PhysAddress,
			region.PhysAddress+region.Length,
			region.Length,
			region.Type.String(),
		)

		if region.Type != multiboot.MemAvailable {
			return true
		}

		available += mem.Size(region.Length)
		if end := region.PhysAddress + region.Length; end > uint64(vmm.WindowSize) {
			start := region.PhysAddress
			if start < uint64(vmm.WindowSize) {
				start = uint64(vmm.WindowSize)
			}
			unmapped += mem.Size(end - start)
		}
		return true
	}

	// Use the noescape hack to prevent the compiler from leaking the visitor
	// function literal to the heap.
	visitMemRegionsFn(
		*(*multiboot.MemRegionVisitor)(noEscape(unsafe.Pointer(&visitor))),
	)

	kfmt.Printf("[kmain] available memory: %dKb\n", uint64(available/mem.Kb))
	if unmapped != 0 {
		kfmt.Printf("[kmain] warning: %dKb of memory lies beyond the physical memory window\n", uint64(unmapped/mem.Kb))
	}

	return available, unmapped
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
