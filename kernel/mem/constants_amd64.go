//go:build amd64
// +build amd64

package mem

const (
	// PointerShift is equal to log2(unsafe.Sizeof(uintptr)). The pointer
	// size for this architecture is defined as (1 << PointerShift).
	PointerShift = 3

	// PageShift is equal to log2(PageSize). This constant is used when
	// we need to convert a physical address to a page number (shift right by PageShift)
	// and vice-versa.
	PageShift = 12

	// PageSize defines the system's page size in bytes.
	PageSize = Size(1 << PageShift)

	// HugePageShift is equal to log2(HugePageSize).
	HugePageShift = 21

	// HugePageSize defines the size of a page mapped by a level 2 entry
	// with the huge page flag set.
	HugePageSize = Size(1 << HugePageShift)

	// PageTableEntries is the number of entries in a page table at any
	// level of the hierarchy.
	PageTableEntries = 512

	// KernelOffset is the start of the virtual window through which all
	// physical memory is accessed (virtual = physical + KernelOffset).
	KernelOffset = 0xffff800000000000

	// HeapStart is the physical address where the kernel heap begins.
	HeapStart = 0x1000000

	// HeapSize is the size of the kernel heap.
	HeapSize = 100 * Kb

	// FrameArenaStart is the first physical frame handed out by the page
	// table frame allocator. It is the first page boundary past the heap.
	FrameArenaStart = (HeapStart + uint64(HeapSize) + uint64(PageSize) - 1) &^ (uint64(PageSize) - 1)

	// physicalAddressMask selects the 52 bits that make up a physical
	// address.
	physicalAddressMask = (1 << 52) - 1

	// canonicalMask selects bits 47-63 of a virtual address. In a
	// canonical address these bits are either all set or all clear.
	canonicalMask = 0xffff800000000000
)
