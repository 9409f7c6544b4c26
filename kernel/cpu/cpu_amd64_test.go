package cpu

import "testing"

func TestSupportsHugePages(t *testing.T) {
	defer func() {
		cpuidFn = ID
	}()

	specs := []struct {
		edx uint32
		exp bool
	}{
		// CPUID leaf 1 EDX reported by qemu64
		{0x078bfbfd, true},
		{0x078bfbf5, false},
		{0, false},
	}

	for specIndex, spec := range specs {
		cpuidFn = func(leaf uint32) (uint32, uint32, uint32, uint32) {
			if leaf != 1 {
				t.Errorf("[spec %d] expected CPUID leaf 1; got %d", specIndex, leaf)
			}
			return 0, 0, 0, spec.edx
		}

		if got := SupportsHugePages(); got != spec.exp {
			t.Errorf("[spec %d] expected SupportsHugePages to return %t; got %t", specIndex, spec.exp, got)
		}
	}
}
