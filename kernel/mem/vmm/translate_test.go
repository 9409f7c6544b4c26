package vmm

import (
	"testing"

	"github.com/budde25/os/kernel/mem"
)

func TestTranslate(t *testing.T) {
	m, mapper, restore := newBootstrappedMapper(t)
	defer restore()

	// Map 0x0000_0080_4020_1000 (P4: 1, P3: 1, P2: 1, P1: 1) to 0xb8000 using
	// 4Kb pages and 0x0000_0100_4000_0000 (P4: 2, P3: 1) using a 1Gb page.
	var (
		p4     = mapper.P4()
		p3     = (*Level3Table)(m.ptr(0x2000))
		p2     = (*Level2Table)(m.ptr(0x3000))
		p1     = (*Level1Table)(m.ptr(0x4000))
		p3Huge = (*Level3Table)(m.ptr(0x5000))
	)
	p4.Entry(1).SetAddress(0x2000, FlagPresent|FlagRW)
	p3.Entry(1).SetAddress(0x3000, FlagPresent|FlagRW)
	p2.Entry(1).SetAddress(0x4000, FlagPresent|FlagRW)
	p1.Entry(1).SetAddress(0xb8000, FlagPresent|FlagRW)
	p1.Entry(2).SetAddress(0xb9000, FlagRW)
	p2.Entry(2).SetAddress(0x5000, FlagRW)
	p3.Entry(2).SetAddress(0x3000, FlagRW)

	p4.Entry(2).SetAddress(0x5000, FlagPresent|FlagRW)
	p3Huge.Entry(1).SetAddress(0x80000000, FlagPresent|FlagRW|FlagHugePage)

	specs := []struct {
		virtAddr    uint64
		expPhysAddr mem.PhysicalAddress
		expErr      bool
	}{
		// window (2Mb pages)
		{0xffff800000000000, 0, false},
		{0xffff8000000b8123, 0xb8123, false},
		{0xffff8007ffffffff, 0x7ffffffff, false},
		// 4Kb page
		{0x0000008040201000, 0xb8000, false},
		{0x0000008040201abc, 0xb8abc, false},
		// 1Gb page
		{0x0000010040000000, 0x80000000, false},
		{0x00000100401234ff, 0x801234ff, false},
		// non-present P1, P2 and P3 entries
		{0x0000008040202000, 0, true},
		{0x0000008040400000, 0, true},
		{0x0000008080000000, 0, true},
		// unmapped P3 entry inside the window
		{0xffff800a00000000, 0, true},
		// unmapped P4 entries
		{0xffff808000000000, 0, true},
		{0xffffff8000000000, 0, true},
	}

	for specIndex, spec := range specs {
		physAddr, err := mapper.Translate(mem.NewVirtualAddress(spec.virtAddr))
		switch {
		case spec.expErr && err != ErrInvalidMapping:
			t.Errorf("[spec %d] expected to get ErrInvalidMapping; got %v", specIndex, err)
		case !spec.expErr && err != nil:
			t.Errorf("[spec %d] unexpected error %v", specIndex, err)
		case !spec.expErr && physAddr != spec.expPhysAddr:
			t.Errorf("[spec %d] expected phys addr to be 0x%x; got 0x%x", specIndex, uint64(spec.expPhysAddr), uint64(physAddr))
		}
	}

	if m.lockHeld {
		t.Fatal("expected the mapper lock to be released")
	}
}
