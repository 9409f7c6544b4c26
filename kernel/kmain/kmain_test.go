package kmain

import (
	"bytes"
	"strings"
	"testing"

	"github.com/budde25/os/kernel/kfmt"
	"github.com/budde25/os/kernel/mem"
	"github.com/budde25/os/kernel/mem/vmm"
	"github.com/budde25/os/multiboot"
)

func TestLogMemoryMap(t *testing.T) {
	defer func(origVisit func(multiboot.MemRegionVisitor)) {
		visitMemRegionsFn = origVisit
		kfmt.SetOutputSink(nil)
	}(visitMemRegionsFn)

	specs := []struct {
		regions     []multiboot.MemoryMapEntry
		expAvail    mem.Size
		expUnmapped mem.Size
		expWarning  bool
	}{
		{
			[]multiboot.MemoryMapEntry{
				{PhysAddress: 0, Length: 0x9fc00, Type: multiboot.MemAvailable},
				{PhysAddress: 0x9fc00, Length: 0x400, Type: multiboot.MemReserved},
				{PhysAddress: 0x100000, Length: 0x7ee0000, Type: multiboot.MemAvailable},
			},
			mem.Size(0x9fc00 + 0x7ee0000),
			0,
			false,
		},
		{
			[]multiboot.MemoryMapEntry{
				{PhysAddress: 0x100000, Length: 0x100000, Type: multiboot.MemAvailable},
				// straddles the end of the window
				{PhysAddress: uint64(vmm.WindowSize) - uint64(mem.Gb), Length: uint64(2 * mem.Gb), Type: multiboot.MemAvailable},
				// reserved regions beyond the window are not reported
				{PhysAddress: uint64(vmm.WindowSize), Length: uint64(mem.Gb), Type: multiboot.MemReserved},
			},
			mem.Size(0x100000) + 2*mem.Gb,
			mem.Gb,
			true,
		},
	}

	for specIndex, spec := range specs {
		regions := spec.regions
		visitMemRegionsFn = func(visitor multiboot.MemRegionVisitor) {
			for i := range regions {
				if !visitor(&regions[i]) {
					return
				}
			}
		}

		var buf bytes.Buffer
		kfmt.SetOutputSink(&buf)

		avail, unmapped := logMemoryMap()
		if avail != spec.expAvail {
			t.Errorf("[spec %d] expected available memory to be %d; got %d", specIndex, spec.expAvail, avail)
		}
		if unmapped != spec.expUnmapped {
			t.Errorf("[spec %d] expected unmapped memory to be %d; got %d", specIndex, spec.expUnmapped, unmapped)
		}

		out := buf.String()
		if got := strings.Count(out, "\t["); got != len(spec.regions) {
			t.Errorf("[spec %d] expected %d region lines; got %d:\n%s", specIndex, len(spec.regions), got, out)
		}
		if !strings.Contains(out, "[kmain] available memory:") {
			t.Errorf("[spec %d] expected output to contain the available memory summary:\n%s", specIndex, out)
		}
		if got := strings.Contains(out, "warning"); got != spec.expWarning {
			t.Errorf("[spec %d] expected warning to be printed: %t; output:\n%s", specIndex, spec.expWarning, out)
		}
	}
}

// countingWriter is an io.Writer that only counts the bytes written to it.
type countingWriter struct {
	written int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.written += len(p)
	return len(p), nil
}

func TestLogMemoryMapHeapAllocations(t *testing.T) {
	defer func(origVisit func(multiboot.MemRegionVisitor)) {
		visitMemRegionsFn = origVisit
		kfmt.SetOutputSink(nil)
	}(visitMemRegionsFn)

	regions := []multiboot.MemoryMapEntry{
		{PhysAddress: 0, Length: 0x9fc00, Type: multiboot.MemAvailable},
		{PhysAddress: 0x9fc00, Length: 0x400, Type: multiboot.MemReserved},
		{PhysAddress: uint64(vmm.WindowSize), Length: uint64(mem.Gb), Type: multiboot.MemAvailable},
	}
	visitMemRegionsFn = func(visitor multiboot.MemRegionVisitor) {
		for i := range regions {
			if !visitor(&regions[i]) {
				return
			}
		}
	}

	w := &countingWriter{}
	kfmt.SetOutputSink(w)

	// Kmain runs before the Go allocator is available
	if allocs := testing.AllocsPerRun(10, func() { logMemoryMap() }); allocs != 0 {
		t.Fatalf("expected logMemoryMap not to allocate; got %v allocations per call", allocs)
	}

	if w.written == 0 {
		t.Fatal("expected logMemoryMap to produce output")
	}
}
