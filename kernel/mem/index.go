package mem

import "github.com/budde25/os/kernel"

var (
	errPageTableIndexOutOfRange = &kernel.Error{Module: "mem", Message: "page table index must be less than 512"}
	errPageOffsetOutOfRange     = &kernel.Error{Module: "mem", Message: "page offset must be less than 4096"}
)

// PageTableIndex is an index into a page table. It is always less than
// PageTableEntries.
type PageTableIndex uint16

// NewPageTableIndex returns idx as a PageTableIndex. It panics if idx is not
// less than PageTableEntries.
func NewPageTableIndex(idx uint16) PageTableIndex {
	if idx >= PageTableEntries {
		panic(errPageTableIndexOutOfRange)
	}

	return PageTableIndex(idx)
}

// TruncatePageTableIndex reduces idx modulo PageTableEntries.
func TruncatePageTableIndex(idx uint16) PageTableIndex {
	return PageTableIndex(idx % PageTableEntries)
}

// PageOffset is a byte offset inside a page. It is always less than PageSize.
type PageOffset uint16

// NewPageOffset returns offset as a PageOffset. It panics if offset is not
// less than PageSize.
func NewPageOffset(offset uint16) PageOffset {
	if Size(offset) >= PageSize {
		panic(errPageOffsetOutOfRange)
	}

	return PageOffset(offset)
}

// TruncatePageOffset reduces offset modulo PageSize.
func TruncatePageOffset(offset uint16) PageOffset {
	return PageOffset(offset % uint16(PageSize))
}
