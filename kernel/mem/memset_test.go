package mem

import (
	"testing"
	"unsafe"
)

func TestMemset(t *testing.T) {
	// a zero size must not touch ptr
	Memset(nil, 0xff, 0)

	specs := []struct {
		size  Size
		value byte
	}{
		{1, 0xaa},
		{3, 0x00},
		{PageSize, 0x00},
		{PageSize + 1, 0x7f},
		{4 * PageSize, 0x00},
		{HugePageSize, 0x01},
	}

	for specIndex, spec := range specs {
		// Guard bytes on either side catch writes outside the region
		buf := make([]byte, spec.size+2)
		for i := range buf {
			buf[i] = ^spec.value
		}

		Memset(unsafe.Pointer(&buf[1]), spec.value, spec.size)

		if buf[0] != ^spec.value || buf[len(buf)-1] != ^spec.value {
			t.Errorf("[spec %d] Memset wrote outside the target region", specIndex)
		}
		for i := 1; i <= int(spec.size); i++ {
			if buf[i] != spec.value {
				t.Errorf("[spec %d] expected byte %d to be 0x%x; got 0x%x", specIndex, i-1, spec.value, buf[i])
				break
			}
		}
	}
}
