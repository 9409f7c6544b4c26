package vmm

import (
	"unsafe"

	"github.com/budde25/os/kernel/mem"
)

var (
	// earlyPtrFn resolves physical addresses through the identity mapping
	// that rt0 sets up for the low physical memory before jumping to the
	// kernel.
	earlyPtrFn = func(addr mem.PhysicalAddress) unsafe.Pointer {
		return unsafe.Pointer(uintptr(addr))
	}

	// windowPtrFn resolves physical addresses through the window installed
	// by MapAllPhysicalMemory.
	windowPtrFn = mem.PhysicalAddress.AsPtr

	// physPtrFn converts the physical address of a page table into a
	// pointer that can be dereferenced. Page table code must only access
	// tables through this function. It starts out as earlyPtrFn and is
	// switched to windowPtrFn once all physical memory has been mapped.
	// Tests override it to point tables into fake physical memory.
	physPtrFn = earlyPtrFn
)

// Level identifies the position of a page table in the paging hierarchy.
type Level uint8

// The page table levels used by the amd64 4-level paging scheme.
const (
	Level1 Level = iota + 1
	Level2
	Level3
	Level4
)

// String implements fmt.Stringer for Level.
func (l Level) String() string {
	switch l {
	case Level1:
		return "P1"
	case Level2:
		return "P2"
	case Level3:
		return "P3"
	case Level4:
		return "P4"
	default:
		return "P?"
	}
}

// PageTable is a page-sized array of page table entries. It is embedded by
// the per-level table types which define how its entries are interpreted.
type PageTable struct {
	entries [mem.PageTableEntries]PageTableEntry
}

// Entry returns a pointer to the entry at index. It panics if index is out
// of range.
func (t *PageTable) Entry(index int) *PageTableEntry {
	return &t.entries[index]
}

// EntryAt returns a pointer to the entry at index.
func (t *PageTable) EntryAt(index mem.PageTableIndex) *PageTableEntry {
	return &t.entries[index]
}

// Entries returns a slice that aliases all table entries.
func (t *PageTable) Entries() []PageTableEntry {
	return t.entries[:]
}

// Zero marks all table entries as unused.
func (t *PageTable) Zero() {
	mem.Memset(unsafe.Pointer(t), 0, mem.PageSize)
}

// nextTableAddress returns the physical address of the table referenced by
// the entry at index. It returns false if the entry is unused or maps a huge
// page, in which case its address points to data instead of a table.
func (t *PageTable) nextTableAddress(index mem.PageTableIndex) (mem.PhysicalAddress, bool) {
	entry := t.entries[index]
	if entry.IsUnused() || entry.IsHuge() {
		return 0, false
	}

	return entry.Address(), true
}

// Level4Table is the root (P4) table whose address is loaded in CR3.
type Level4Table struct {
	PageTable
}

// Level returns Level4.
func (t *Level4Table) Level() Level { return Level4 }

// NextTableAddress returns the physical address of the P3 table referenced by
// the entry at index.
func (t *Level4Table) NextTableAddress(index mem.PageTableIndex) (mem.PhysicalAddress, bool) {
	return t.nextTableAddress(index)
}

// NextTable returns the P3 table referenced by the entry at index.
func (t *Level4Table) NextTable(index mem.PageTableIndex) (*Level3Table, bool) {
	addr, ok := t.nextTableAddress(index)
	if !ok {
		return nil, false
	}

	return (*Level3Table)(physPtrFn(addr)), true
}

// Level3Table is a P3 table; each entry covers 1Gb of virtual memory.
type Level3Table struct {
	PageTable
}

// Level returns Level3.
func (t *Level3Table) Level() Level { return Level3 }

// NextTableAddress returns the physical address of the P2 table referenced by
// the entry at index.
func (t *Level3Table) NextTableAddress(index mem.PageTableIndex) (mem.PhysicalAddress, bool) {
	return t.nextTableAddress(index)
}

// NextTable returns the P2 table referenced by the entry at index.
func (t *Level3Table) NextTable(index mem.PageTableIndex) (*Level2Table, bool) {
	addr, ok := t.nextTableAddress(index)
	if !ok {
		return nil, false
	}

	return (*Level2Table)(physPtrFn(addr)), true
}

// Level2Table is a P2 table; each entry covers 2Mb of virtual memory.
type Level2Table struct {
	PageTable
}

// Level returns Level2.
func (t *Level2Table) Level() Level { return Level2 }

// NextTableAddress returns the physical address of the P1 table referenced by
// the entry at index.
func (t *Level2Table) NextTableAddress(index mem.PageTableIndex) (mem.PhysicalAddress, bool) {
	return t.nextTableAddress(index)
}

// NextTable returns the P1 table referenced by the entry at index.
func (t *Level2Table) NextTable(index mem.PageTableIndex) (*Level1Table, bool) {
	addr, ok := t.nextTableAddress(index)
	if !ok {
		return nil, false
	}

	return (*Level1Table)(physPtrFn(addr)), true
}

// Level1Table is a P1 table. Its entries map 4Kb pages and never reference
// another table.
type Level1Table struct {
	PageTable
}

// Level returns Level1.
func (t *Level1Table) Level() Level { return Level1 }
