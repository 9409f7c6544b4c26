package mem

import (
	"unsafe"

	"github.com/budde25/os/kernel"
)

var (
	errInvalidPhysicalAddress = &kernel.Error{Module: "mem", Message: "physical address must not have any bits in the range 52 to 64 set"}
	errNonCanonicalAddress    = &kernel.Error{Module: "mem", Message: "virtual address bits 47 to 64 must be a sign extension of bit 47"}
	errInvalidAlignment       = &kernel.Error{Module: "mem", Message: "alignment must be a power of two"}
	errOutsideWindow          = &kernel.Error{Module: "mem", Message: "physical address is not covered by the kernel window"}
	errAddressOverflow        = &kernel.Error{Module: "mem", Message: "address arithmetic overflows 64 bits"}
)

// PhysicalAddress is a 52-bit physical memory address.
type PhysicalAddress uint64

// TryNewPhysicalAddress returns a PhysicalAddress for addr or an error if any
// of the bits in the range 52 to 64 are set.
func TryNewPhysicalAddress(addr uint64) (PhysicalAddress, *kernel.Error) {
	if addr&^physicalAddressMask != 0 {
		return 0, errInvalidPhysicalAddress
	}

	return PhysicalAddress(addr), nil
}

// NewPhysicalAddress behaves like TryNewPhysicalAddress but panics if addr is
// not a valid physical address.
func NewPhysicalAddress(addr uint64) PhysicalAddress {
	pa, err := TryNewPhysicalAddress(addr)
	if err != nil {
		panic(err)
	}

	return pa
}

// TruncatePhysicalAddress clears bits 52 to 64 of addr and returns the
// result as a PhysicalAddress.
func TruncatePhysicalAddress(addr uint64) PhysicalAddress {
	return PhysicalAddress(addr & physicalAddressMask)
}

// IsNull returns true if this is the zero address.
func (p PhysicalAddress) IsNull() bool {
	return p == 0
}

// AlignUp rounds the address up to the next multiple of align.
func (p PhysicalAddress) AlignUp(align uint64) PhysicalAddress {
	return NewPhysicalAddress(checkedAlignUp(uint64(p), align))
}

// AlignDown rounds the address down to the previous multiple of align.
func (p PhysicalAddress) AlignDown(align uint64) PhysicalAddress {
	return NewPhysicalAddress(AlignDown(uint64(p), align))
}

// IsAligned returns true if the address is a multiple of align.
func (p PhysicalAddress) IsAligned(align uint64) bool {
	return isAligned(uint64(p), align)
}

// Add returns the address offset bytes past p.
func (p PhysicalAddress) Add(offset uint64) PhysicalAddress {
	return NewPhysicalAddress(checkedAdd(uint64(p), offset))
}

// Sub returns the address offset bytes before p.
func (p PhysicalAddress) Sub(offset uint64) PhysicalAddress {
	return NewPhysicalAddress(checkedSub(uint64(p), offset))
}

// Window returns the virtual address through which p can be accessed once
// all physical memory has been mapped at KernelOffset.
func (p PhysicalAddress) Window() VirtualAddress {
	if p&canonicalMask != 0 {
		panic(errOutsideWindow)
	}

	return VirtualAddress(uint64(p) + KernelOffset)
}

// AsPtr returns a pointer to the memory at physical address p, accessed
// through the kernel window.
//
// The result is only valid after vmm has mapped all physical memory; calling
// AsPtr earlier yields a pointer to unmapped memory.
func (p PhysicalAddress) AsPtr() unsafe.Pointer {
	return p.Window().AsPtr()
}

// VirtualAddress is a canonical 48-bit virtual memory address.
type VirtualAddress uint64

// TryNewVirtualAddress returns a VirtualAddress for addr or an error if addr
// is not canonical.
func TryNewVirtualAddress(addr uint64) (VirtualAddress, *kernel.Error) {
	switch addr & canonicalMask {
	case 0, canonicalMask:
		return VirtualAddress(addr), nil
	default:
		return 0, errNonCanonicalAddress
	}
}

// NewVirtualAddress behaves like TryNewVirtualAddress but panics if addr is
// not canonical.
func NewVirtualAddress(addr uint64) VirtualAddress {
	va, err := TryNewVirtualAddress(addr)
	if err != nil {
		panic(err)
	}

	return va
}

// TruncateVirtualAddress returns the canonical form of addr by sign-extending
// bit 47 into bits 48 to 64.
func TruncateVirtualAddress(addr uint64) VirtualAddress {
	return VirtualAddress(uint64(int64(addr<<16) >> 16))
}

// VirtualAddressFromIndices returns the canonical virtual address that is
// translated through the given table indices and page offset.
func VirtualAddressFromIndices(p4, p3, p2, p1 PageTableIndex, offset PageOffset) VirtualAddress {
	return TruncateVirtualAddress(uint64(p4)<<39 |
		uint64(p3)<<30 |
		uint64(p2)<<21 |
		uint64(p1)<<12 |
		uint64(offset))
}

// IsNull returns true if this is the zero address.
func (v VirtualAddress) IsNull() bool {
	return v == 0
}

// AlignUp rounds the address up to the next multiple of align.
func (v VirtualAddress) AlignUp(align uint64) VirtualAddress {
	return NewVirtualAddress(checkedAlignUp(uint64(v), align))
}

// AlignDown rounds the address down to the previous multiple of align.
func (v VirtualAddress) AlignDown(align uint64) VirtualAddress {
	return NewVirtualAddress(AlignDown(uint64(v), align))
}

// IsAligned returns true if the address is a multiple of align.
func (v VirtualAddress) IsAligned(align uint64) bool {
	return isAligned(uint64(v), align)
}

// Add returns the address offset bytes past v.
func (v VirtualAddress) Add(offset uint64) VirtualAddress {
	return NewVirtualAddress(checkedAdd(uint64(v), offset))
}

// Sub returns the address offset bytes before v.
func (v VirtualAddress) Sub(offset uint64) VirtualAddress {
	return NewVirtualAddress(checkedSub(uint64(v), offset))
}

// AsPtr returns v as a pointer.
func (v VirtualAddress) AsPtr() unsafe.Pointer {
	return unsafe.Pointer(uintptr(v))
}

// PageOffset returns bits 0 to 11 of the address.
func (v VirtualAddress) PageOffset() PageOffset {
	return TruncatePageOffset(uint16(v))
}

// P1Index returns the index into the level 1 table (bits 12 to 20).
func (v VirtualAddress) P1Index() PageTableIndex {
	return TruncatePageTableIndex(uint16(v >> 12))
}

// P2Index returns the index into the level 2 table (bits 21 to 29).
func (v VirtualAddress) P2Index() PageTableIndex {
	return TruncatePageTableIndex(uint16(v >> 21))
}

// P3Index returns the index into the level 3 table (bits 30 to 38).
func (v VirtualAddress) P3Index() PageTableIndex {
	return TruncatePageTableIndex(uint16(v >> 30))
}

// P4Index returns the index into the level 4 table (bits 39 to 47).
func (v VirtualAddress) P4Index() PageTableIndex {
	return TruncatePageTableIndex(uint16(v >> 39))
}

// AlignUp rounds addr up to the next multiple of align, which must be a
// power of two. Values that are already aligned are returned unchanged.
func AlignUp(addr, align uint64) uint64 {
	mask := alignMask(align)
	if addr&mask == 0 {
		return addr
	}

	return (addr | mask) + 1
}

// AlignDown rounds addr down to the previous multiple of align, which must be
// a power of two.
func AlignDown(addr, align uint64) uint64 {
	return addr &^ alignMask(align)
}

func isAligned(addr, align uint64) bool {
	return addr&alignMask(align) == 0
}

func alignMask(align uint64) uint64 {
	if align == 0 || align&(align-1) != 0 {
		panic(errInvalidAlignment)
	}

	return align - 1
}

// checkedAlignUp behaves like AlignUp but panics if rounding up wraps past
// the end of the 64-bit address space.
func checkedAlignUp(addr, align uint64) uint64 {
	res := AlignUp(addr, align)
	if res < addr {
		panic(errAddressOverflow)
	}

	return res
}

// checkedAdd returns addr+offset and panics if the sum wraps.
func checkedAdd(addr, offset uint64) uint64 {
	res := addr + offset
	if res < addr {
		panic(errAddressOverflow)
	}

	return res
}

// checkedSub returns addr-offset and panics if the difference wraps.
func checkedSub(addr, offset uint64) uint64 {
	if offset > addr {
		panic(errAddressOverflow)
	}

	return addr - offset
}
