package vmm

import (
	"github.com/budde25/os/kernel"
	"github.com/budde25/os/kernel/mem"
	"github.com/budde25/os/kernel/mem/pmm"
)

var errMisalignedTableAddress = &kernel.Error{Module: "vmm", Message: "page table entry address must be page aligned"}

// PageTableEntryFlag describes a flag that can be applied to a page table entry.
type PageTableEntryFlag uint64

// PageTableEntry describes a page table entry in the format expected by the
// MMU. Bits 12-51 encode a page-aligned physical address and the remaining
// bits hold PageTableEntryFlag values. An entry with no bits set is unused.
type PageTableEntry uint64

// IsUnused returns true if no bits are set for this entry.
func (pte PageTableEntry) IsUnused() bool {
	return pte == 0
}

// SetUnused clears all entry bits.
func (pte *PageTableEntry) SetUnused() {
	*pte = 0
}

// Flags returns the flags that are set for this entry.
func (pte PageTableEntry) Flags() PageTableEntryFlag {
	return PageTableEntryFlag(uint64(pte) &^ ptePhysPageMask)
}

// Address returns the physical address encoded in this entry.
func (pte PageTableEntry) Address() mem.PhysicalAddress {
	return mem.PhysicalAddress(uint64(pte) & ptePhysPageMask)
}

// Frame returns the physical frame that this entry points to. The second
// return value is false if the entry is not present.
func (pte PageTableEntry) Frame() (pmm.Frame, bool) {
	if !pte.IsPresent() {
		return pmm.InvalidFrame, false
	}

	return pmm.FrameFromAddress(pte.Address()), true
}

// SetAddress overwrites the entry so that it points to addr and has exactly
// the supplied flags set. Any previously set flags are discarded; use
// SetFlags to add flags to an existing entry. SetAddress panics if addr is
// not page-aligned.
func (pte *PageTableEntry) SetAddress(addr mem.PhysicalAddress, flags PageTableEntryFlag) {
	if !addr.IsAligned(uint64(mem.PageSize)) {
		panic(errMisalignedTableAddress)
	}

	*pte = PageTableEntry(uint64(addr) | (uint64(flags) &^ ptePhysPageMask))
}

// SetFlags sets the input list of flags to the page table entry.
func (pte *PageTableEntry) SetFlags(flags PageTableEntryFlag) {
	*pte = PageTableEntry(uint64(*pte) | uint64(flags))
}

// ClearFlags unsets the input list of flags from the page table entry.
func (pte *PageTableEntry) ClearFlags(flags PageTableEntryFlag) {
	*pte = PageTableEntry(uint64(*pte) &^ uint64(flags))
}

// HasFlags returns true if this entry has all the input flags set.
func (pte PageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return (uint64(pte) & uint64(flags)) == uint64(flags)
}

// HasAnyFlag returns true if this entry has at least one of the input flags set.
func (pte PageTableEntry) HasAnyFlag(flags PageTableEntryFlag) bool {
	return (uint64(pte) & uint64(flags)) != 0
}

// IsPresent returns true if FlagPresent is set.
func (pte PageTableEntry) IsPresent() bool { return pte.HasFlags(FlagPresent) }

// IsWritable returns true if FlagRW is set.
func (pte PageTableEntry) IsWritable() bool { return pte.HasFlags(FlagRW) }

// IsUserAccessible returns true if FlagUserAccessible is set.
func (pte PageTableEntry) IsUserAccessible() bool { return pte.HasFlags(FlagUserAccessible) }

// IsWriteThrough returns true if FlagWriteThroughCaching is set.
func (pte PageTableEntry) IsWriteThrough() bool { return pte.HasFlags(FlagWriteThroughCaching) }

// IsCacheEnabled returns true unless FlagDoNotCache is set.
func (pte PageTableEntry) IsCacheEnabled() bool { return !pte.HasFlags(FlagDoNotCache) }

// IsAccessed returns true if the CPU has set FlagAccessed.
func (pte PageTableEntry) IsAccessed() bool { return pte.HasFlags(FlagAccessed) }

// IsDirty returns true if the CPU has set FlagDirty.
func (pte PageTableEntry) IsDirty() bool { return pte.HasFlags(FlagDirty) }

// IsHuge returns true if FlagHugePage is set.
func (pte PageTableEntry) IsHuge() bool { return pte.HasFlags(FlagHugePage) }

// IsGlobal returns true if FlagGlobal is set.
func (pte PageTableEntry) IsGlobal() bool { return pte.HasFlags(FlagGlobal) }

// IsExecutable returns true unless FlagNoExecute is set.
func (pte PageTableEntry) IsExecutable() bool { return !pte.HasFlags(FlagNoExecute) }
