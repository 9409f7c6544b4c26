package vmm

import (
	"github.com/budde25/os/kernel"
	"github.com/budde25/os/kernel/cpu"
	"github.com/budde25/os/kernel/kfmt"
	"github.com/budde25/os/kernel/mem"
)

var (
	// supportsHugePagesFn is used by tests to override calls to
	// cpu.SupportsHugePages.
	supportsHugePagesFn = cpu.SupportsHugePages

	// windowMapped is set once MapAllPhysicalMemory has installed the
	// physical memory window.
	windowMapped bool

	errNoHugePageSupport = &kernel.Error{Module: "vmm", Message: "huge pages are not supported"}
	errWindowMapped      = &kernel.Error{Module: "vmm", Message: "physical memory is already mapped"}
)

// MapAllPhysicalMemory maps the first WindowSize bytes of physical memory at
// mem.KernelOffset using 2Mb pages and installs the page table frame arena.
// Once it returns, mem.PhysicalAddress.AsPtr can be used to access any
// physical address covered by the window.
//
// reservedP3Start is the physical address of a page-aligned region, reserved
// by the linker, that holds the window P3 table followed by windowP3Slots P2
// tables and the frame arena P2 table. Its contents are overwritten.
//
// MapAllPhysicalMemory must run before interrupts are enabled and before
// anything dereferences a physical address through the window. It panics if
// called more than once, as remapping would discard the frame arena.
func (m *Mapper) MapAllPhysicalMemory(reservedP3Start mem.PhysicalAddress) {
	if windowMapped {
		panic(errWindowMapped)
	}
	if !supportsHugePagesFn() {
		panic(errNoHugePageSupport)
	}

	m.acquire()

	p3 := (*Level3Table)(physPtrFn(reservedP3Start))
	p3.Zero()
	m.P4().EntryAt(windowP4Index).SetAddress(reservedP3Start, FlagPresent|FlagRW)

	var physAddr uint64
	for p3Index := 0; p3Index < windowP3Slots; p3Index++ {
		p2Addr := reservedTableAddress(reservedP3Start, 1+p3Index)
		p3.Entry(p3Index).SetAddress(p2Addr, FlagPresent|FlagRW)

		p2 := (*Level2Table)(physPtrFn(p2Addr))
		for p2Index := range p2.Entries() {
			p2.Entry(p2Index).SetAddress(mem.NewPhysicalAddress(physAddr), FlagPresent|FlagRW|FlagHugePage)
			physAddr += uint64(mem.HugePageSize)
		}
	}

	arenaAddr := reservedTableAddress(reservedP3Start, frameArenaTable)
	(*Level2Table)(physPtrFn(arenaAddr)).Zero()
	p3.EntryAt(frameArenaP3Index).SetAddress(arenaAddr, FlagPresent|FlagRW)

	physPtrFn = windowPtrFn
	windowMapped = true

	m.release()

	FlushAll()

	kfmt.Printf("[vmm] mapped %dGb of physical memory at 0x%x\n", uint64(WindowSize/mem.Gb), uint64(mem.KernelOffset))
}

// reservedTableAddress returns the address of the index-th table in the
// reserved table region.
func reservedTableAddress(reservedP3Start mem.PhysicalAddress, index int) mem.PhysicalAddress {
	return reservedP3Start.Add(uint64(index) << mem.PageShift)
}
