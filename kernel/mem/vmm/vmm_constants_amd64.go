package vmm

import "github.com/budde25/os/kernel/mem"

const (
	// ptePhysPageMask is a mask that allows us to extract the physical memory
	// address pointed to by a page table entry. For this particular architecture,
	// bits 12-51 contain the physical memory address.
	ptePhysPageMask = uint64(0x000ffffffffff000)

	// windowP4Index is the P4 slot that maps the physical memory window
	// starting at mem.KernelOffset.
	windowP4Index = mem.PageTableIndex(256)

	// windowP3Slots is the number of P3 entries (1Gb each) used for mapping
	// physical memory into the window.
	windowP3Slots = 32

	// WindowSize is the amount of physical memory reachable through the
	// window at mem.KernelOffset.
	WindowSize = windowP3Slots * mem.PageTableEntries * mem.HugePageSize

	// frameArenaP3Index is the P3 slot (under windowP4Index) that holds the
	// P2 table tracking the frames handed out by Mapper.AllocateFrame.
	frameArenaP3Index = mem.PageTableIndex(windowP3Slots)

	// frameArenaSlots is the number of frames the arena can track.
	frameArenaSlots = mem.PageTableEntries

	// frameArenaTable is the page index, relative to the start of the
	// reserved table region, of the P2 table used by the frame arena. The
	// region starts with the window P3 table followed by windowP3Slots P2
	// tables.
	frameArenaTable = windowP3Slots + 1
)

const (
	// FlagPresent is set when the page is available in memory and not swapped out.
	FlagPresent PageTableEntryFlag = 1 << iota

	// FlagRW is set if the page can be written to.
	FlagRW

	// FlagUserAccessible is set if user-mode processes can access this page. If
	// not set only kernel code can access this page.
	FlagUserAccessible

	// FlagWriteThroughCaching implies write-through caching when set and write-back
	// caching if cleared.
	FlagWriteThroughCaching

	// FlagDoNotCache prevents this page from being cached if set.
	FlagDoNotCache

	// FlagAccessed is set by the CPU when this page is accessed.
	FlagAccessed

	// FlagDirty is set by the CPU when this page is modified.
	FlagDirty

	// FlagHugePage is set when the entry maps a 2Mb (P2) or 1Gb (P3) page
	// instead of pointing to the next table.
	FlagHugePage

	// FlagGlobal if set, prevents the TLB from flushing the cached memory address
	// for this page when the swapping page tables by updating the CR3 register.
	FlagGlobal

	// FlagAvailable1 to FlagAvailable3 are ignored by the CPU and free for
	// use by the kernel.
	FlagAvailable1
	FlagAvailable2
	FlagAvailable3
)

const (
	// FlagAvailable4 to FlagAvailable14 occupy bits 52-62 and are ignored by
	// the CPU.
	FlagAvailable4 PageTableEntryFlag = 1 << (iota + 52)
	FlagAvailable5
	FlagAvailable6
	FlagAvailable7
	FlagAvailable8
	FlagAvailable9
	FlagAvailable10
	FlagAvailable11
	FlagAvailable12
	FlagAvailable13
	FlagAvailable14

	// FlagNoExecute if set, indicates that a page contains non-executable code.
	FlagNoExecute
)
