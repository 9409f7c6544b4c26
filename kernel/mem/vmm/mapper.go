package vmm

import (
	"unsafe"

	"github.com/budde25/os/kernel"
	"github.com/budde25/os/kernel/cpu"
	"github.com/budde25/os/kernel/mem"
	"github.com/budde25/os/kernel/mem/pmm"
	"github.com/budde25/os/kernel/sync"
)

var (
	// activePDTFn is used by tests to override calls to cpu.ActivePDT
	// which will cause a fault if called in user-mode.
	activePDTFn = cpu.ActivePDT

	// lockFn and unlockFn guard the mapper state. IRQSpinlock toggles the
	// interrupt flag which faults in user-mode so tests replace them.
	lockFn   = (*sync.IRQSpinlock).Acquire
	unlockFn = (*sync.IRQSpinlock).Release

	// mapperCreated is set by NewMapper. There is only one address space
	// and therefore only one Mapper.
	mapperCreated bool

	errMapperExists        = &kernel.Error{Module: "vmm", Message: "a mapper for the active page table already exists"}
	errFrameArenaMissing   = &kernel.Error{Module: "vmm", Message: "frame arena is not mapped; physical memory must be mapped first"}
	errFrameArenaExhausted = &kernel.Error{Module: "vmm", Message: "PageTable out of memory"}
	errFrameNotInArena     = &kernel.Error{Module: "vmm", Message: "frame was not allocated by the page table frame arena"}
	errFrameNotAllocated   = &kernel.Error{Module: "vmm", Message: "frame is not allocated"}
)

// Mapper provides access to the active page table hierarchy and allocates
// the frames used for new page tables.
//
// Page table frames come from a fixed arena of physical memory located at
// mem.FrameArenaStart. The arena is tracked by a P2 table installed by
// MapAllPhysicalMemory: slot i of that table owns the frame at
// mem.FrameArenaStart + i*mem.PageSize and is unused while the frame is free.
// Allocated frames are zeroed and installed in their slot as empty P1 tables.
type Mapper struct {
	lock sync.IRQSpinlock

	// p4Addr is the physical address of the P4 table loaded in CR3 when
	// the Mapper was created. Loading a different table in CR3 without
	// creating a new Mapper leaves the Mapper pointing to a stale table.
	p4Addr mem.PhysicalAddress

	// nextSlot is the arena slot where the search for a free frame begins.
	nextSlot int
}

// NewMapper returns a Mapper for the page table hierarchy that is currently
// loaded in CR3. It panics if called more than once.
//
// The Mapper is returned by value so that it can live on the caller's stack
// before the Go allocator is available. It must not be copied after use.
func NewMapper() Mapper {
	if mapperCreated {
		panic(errMapperExists)
	}
	mapperCreated = true

	return Mapper{
		p4Addr: mem.NewPhysicalAddress(uint64(activePDTFn())),
	}
}

// P4Address returns the physical address of the P4 table.
func (m *Mapper) P4Address() mem.PhysicalAddress {
	return m.p4Addr
}

// P4 returns the live P4 table.
func (m *Mapper) P4() *Level4Table {
	return (*Level4Table)(physPtrFn(m.p4Addr))
}

// AllocateFrame reserves a zeroed frame from the page table frame arena.
// Freed frames are handed out again by later calls. AllocateFrame panics if
// all arena frames are in use.
func (m *Mapper) AllocateFrame() pmm.Frame {
	m.acquire()

	arena := m.frameArena()
	for n := 0; n < frameArenaSlots; n++ {
		slot := (m.nextSlot + n) % frameArenaSlots
		entry := arena.Entry(slot)
		if !entry.IsUnused() {
			continue
		}

		frameAddr := frameArenaAddress(slot)
		mem.Memset(physPtrFn(frameAddr), 0, mem.PageSize)
		entry.SetAddress(frameAddr, FlagPresent|FlagRW)
		m.nextSlot = (slot + 1) % frameArenaSlots

		m.release()
		return pmm.FrameFromAddress(frameAddr)
	}

	m.release()
	panic(errFrameArenaExhausted)
}

// DeallocFrame returns a frame obtained by AllocateFrame to the arena and
// flushes the TLB entry for its arena slot. It panics if the frame does not
// belong to the arena or is not allocated.
func (m *Mapper) DeallocFrame(frame pmm.Frame) {
	frameAddr := uint64(frame.Address())
	if frameAddr < mem.FrameArenaStart || frameAddr >= mem.FrameArenaStart+frameArenaSlots*uint64(mem.PageSize) {
		panic(errFrameNotInArena)
	}
	slot := int((frameAddr - mem.FrameArenaStart) >> mem.PageShift)

	m.acquire()

	entry := m.frameArena().Entry(slot)
	if entry.IsUnused() {
		m.release()
		panic(errFrameNotAllocated)
	}
	entry.SetUnused()

	m.release()

	Flush(frameArenaSlotAddress(slot))
}

// acquire locks the mapper. The lock address is hidden from escape analysis
// so that a Mapper on the boot stack is not moved to the heap.
func (m *Mapper) acquire() {
	lockFn((*sync.IRQSpinlock)(noEscape(unsafe.Pointer(&m.lock))))
}

// release unlocks the mapper.
func (m *Mapper) release() {
	unlockFn((*sync.IRQSpinlock)(noEscape(unsafe.Pointer(&m.lock))))
}

// frameArena returns the P2 table that tracks the frame arena. It must be
// called with the lock held.
func (m *Mapper) frameArena() *Level2Table {
	p3, ok := m.P4().NextTable(windowP4Index)
	if !ok {
		m.release()
		panic(errFrameArenaMissing)
	}

	arena, ok := p3.NextTable(frameArenaP3Index)
	if !ok {
		m.release()
		panic(errFrameArenaMissing)
	}

	return arena
}

// frameArenaAddress returns the physical address of the frame owned by slot.
func frameArenaAddress(slot int) mem.PhysicalAddress {
	return mem.NewPhysicalAddress(mem.FrameArenaStart + uint64(slot)<<mem.PageShift)
}

// frameArenaSlotAddress returns the virtual address translated through the
// arena entry at slot.
func frameArenaSlotAddress(slot int) mem.VirtualAddress {
	return mem.VirtualAddressFromIndices(windowP4Index, frameArenaP3Index, mem.NewPageTableIndex(uint16(slot)), 0, 0)
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

var _ pmm.Allocator = (*Mapper)(nil)
