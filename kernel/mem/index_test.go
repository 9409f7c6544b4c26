package mem

import "testing"

func TestPageTableIndex(t *testing.T) {
	for _, idx := range []uint16{0, 1, 256, 511} {
		if got := NewPageTableIndex(idx); uint16(got) != idx {
			t.Errorf("expected NewPageTableIndex(%d) to return %d; got %d", idx, idx, got)
		}
	}

	specs := []struct {
		input uint16
		exp   PageTableIndex
	}{
		{0, 0},
		{511, 511},
		{512, 0},
		{513, 1},
		{0xffff, 511},
	}

	for specIndex, spec := range specs {
		if got := TruncatePageTableIndex(spec.input); got != spec.exp {
			t.Errorf("[spec %d] expected TruncatePageTableIndex(%d) to return %d; got %d", specIndex, spec.input, spec.exp, got)
		}
	}

	t.Run("out of range", func(t *testing.T) {
		defer func() {
			if err := recover(); err != errPageTableIndexOutOfRange {
				t.Fatalf("expected to recover %v; got %v", errPageTableIndexOutOfRange, err)
			}
		}()

		NewPageTableIndex(512)
	})
}

func TestPageOffset(t *testing.T) {
	for _, offset := range []uint16{0, 1, 2048, 4095} {
		if got := NewPageOffset(offset); uint16(got) != offset {
			t.Errorf("expected NewPageOffset(%d) to return %d; got %d", offset, offset, got)
		}
	}

	specs := []struct {
		input uint16
		exp   PageOffset
	}{
		{0, 0},
		{4095, 4095},
		{4096, 0},
		{4097, 1},
		{0xffff, 4095},
	}

	for specIndex, spec := range specs {
		if got := TruncatePageOffset(spec.input); got != spec.exp {
			t.Errorf("[spec %d] expected TruncatePageOffset(%d) to return %d; got %d", specIndex, spec.input, spec.exp, got)
		}
	}

	t.Run("out of range", func(t *testing.T) {
		defer func() {
			if err := recover(); err != errPageOffsetOutOfRange {
				t.Fatalf("expected to recover %v; got %v", errPageOffsetOutOfRange, err)
			}
		}()

		NewPageOffset(4096)
	})
}
