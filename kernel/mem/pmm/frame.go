// Package pmm contains code that manages physical memory frame allocations.
package pmm

import (
	"math"

	"github.com/budde25/os/kernel/mem"
)

// Frame describes a physical memory page index.
type Frame uint64

const (
	// InvalidFrame is returned by page allocators when
	// they fail to reserve the requested frame.
	InvalidFrame = Frame(math.MaxUint64)
)

// FrameFromAddress returns the Frame that contains the given physical
// address.
func FrameFromAddress(addr mem.PhysicalAddress) Frame {
	return Frame(addr >> mem.PageShift)
}

// Valid returns true if this is a valid frame.
func (f Frame) Valid() bool {
	return f != InvalidFrame
}

// Address returns the page-aligned physical address of this Frame.
func (f Frame) Address() mem.PhysicalAddress {
	return mem.NewPhysicalAddress(uint64(f) << mem.PageShift)
}

// Allocator is implemented by types that hand out physical frames.
type Allocator interface {
	// AllocateFrame reserves a zeroed frame. Allocators panic when no
	// frame is available.
	AllocateFrame() Frame

	// DeallocFrame releases a frame previously returned by
	// AllocateFrame.
	DeallocFrame(Frame)
}
