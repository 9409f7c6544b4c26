package vmm

import (
	"github.com/budde25/os/kernel"
	"github.com/budde25/os/kernel/mem"
)

var (
	// ErrInvalidMapping is returned when trying to lookup a virtual memory address that is not yet mapped.
	ErrInvalidMapping = &kernel.Error{Module: "vmm", Message: "virtual address does not point to a mapped physical page"}
)

// Translate returns the physical address that corresponds to the supplied
// virtual address or ErrInvalidMapping if the virtual address does not
// correspond to a mapped physical address. Both 1Gb and 2Mb pages are
// supported.
func (m *Mapper) Translate(virtAddr mem.VirtualAddress) (mem.PhysicalAddress, *kernel.Error) {
	m.acquire()
	physAddr, err := m.translate(virtAddr)
	m.release()

	return physAddr, err
}

func (m *Mapper) translate(virtAddr mem.VirtualAddress) (mem.PhysicalAddress, *kernel.Error) {
	p4 := m.P4()
	if !p4.EntryAt(virtAddr.P4Index()).IsPresent() {
		return 0, ErrInvalidMapping
	}

	p3, ok := p4.NextTable(virtAddr.P4Index())
	if !ok {
		return 0, ErrInvalidMapping
	}

	p3Entry := p3.EntryAt(virtAddr.P3Index())
	switch {
	case !p3Entry.IsPresent():
		return 0, ErrInvalidMapping
	case p3Entry.IsHuge():
		return pageAddress(*p3Entry, virtAddr, mem.Gb), nil
	}

	p2, _ := p3.NextTable(virtAddr.P3Index())
	p2Entry := p2.EntryAt(virtAddr.P2Index())
	switch {
	case !p2Entry.IsPresent():
		return 0, ErrInvalidMapping
	case p2Entry.IsHuge():
		return pageAddress(*p2Entry, virtAddr, mem.HugePageSize), nil
	}

	p1, _ := p2.NextTable(virtAddr.P2Index())
	p1Entry := p1.EntryAt(virtAddr.P1Index())
	if !p1Entry.IsPresent() {
		return 0, ErrInvalidMapping
	}

	return pageAddress(*p1Entry, virtAddr, mem.PageSize), nil
}

// pageAddress combines the address of the page mapped by entry with the
// offset of virtAddr inside a page of the given size.
func pageAddress(entry PageTableEntry, virtAddr mem.VirtualAddress, pageSize mem.Size) mem.PhysicalAddress {
	return entry.Address().AlignDown(uint64(pageSize)).Add(uint64(virtAddr) & (uint64(pageSize) - 1))
}
