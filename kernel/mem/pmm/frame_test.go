package pmm

import (
	"testing"

	"github.com/budde25/os/kernel/mem"
)

func TestFrameMethods(t *testing.T) {
	for frameIndex := uint64(0); frameIndex < 128; frameIndex++ {
		frame := Frame(frameIndex)

		if !frame.Valid() {
			t.Errorf("expected frame %d to be valid", frameIndex)
		}

		if exp, got := mem.PhysicalAddress(frameIndex<<mem.PageShift), frame.Address(); got != exp {
			t.Errorf("expected frame (%d, index: %d) call to Address() to return %x; got %x", frame, frameIndex, exp, got)
		}
	}

	invalidFrame := InvalidFrame
	if invalidFrame.Valid() {
		t.Error("expected InvalidFrame.Valid() to return false")
	}
}

func TestFrameFromAddress(t *testing.T) {
	specs := []struct {
		addr     mem.PhysicalAddress
		expFrame Frame
	}{
		{0, Frame(0)},
		{4095, Frame(0)},
		{4096, Frame(1)},
		{0x1234, Frame(1)},
		{mem.PhysicalAddress(mem.FrameArenaStart), Frame(mem.FrameArenaStart >> mem.PageShift)},
		{0x000fffffffffffff, Frame(0xffffffffff)},
	}

	for specIndex, spec := range specs {
		frame := FrameFromAddress(spec.addr)
		if frame != spec.expFrame {
			t.Errorf("[spec %d] expected frame %d; got %d", specIndex, spec.expFrame, frame)
		}

		if exp := spec.addr.AlignDown(uint64(mem.PageSize)); frame.Address() != exp {
			t.Errorf("[spec %d] expected frame address %x; got %x", specIndex, exp, frame.Address())
		}
	}
}
