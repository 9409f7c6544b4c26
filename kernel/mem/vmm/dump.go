package vmm

import (
	"io"
	"unsafe"

	"github.com/budde25/os/kernel/kfmt"
	"github.com/budde25/os/kernel/mem"
)

var dumpIndent = []byte("    ")

// DumpTables writes the present P4 entries and the present entries of the P3
// tables they reference to w.
func (m *Mapper) DumpTables(w io.Writer) {
	m.acquire()
	defer m.release()

	p4 := m.P4()
	kfmt.Fprintf(w, "%s table at 0x%x\n", p4.Level().String(), uint64(m.p4Addr))

	// Use the noescape hack so the nested writer stays on the stack.
	nested := kfmt.PrefixWriter{Sink: w, Prefix: dumpIndent}
	nestedW := (*kfmt.PrefixWriter)(noEscape(unsafe.Pointer(&nested)))
	for p4Index, p4Entry := range p4.Entries() {
		if !p4Entry.IsPresent() {
			continue
		}

		dumpEntry(w, p4Index, p4Entry)

		p3, ok := p4.NextTable(mem.PageTableIndex(p4Index))
		if !ok {
			continue
		}

		for p3Index, p3Entry := range p3.Entries() {
			if p3Entry.IsPresent() {
				dumpEntry(nestedW, p3Index, p3Entry)
			}
		}
	}
}

func dumpEntry(w io.Writer, index int, entry PageTableEntry) {
	kfmt.Fprintf(w, "[%3d] 0x%16x", index, uint64(entry.Address()))
	if entry.IsWritable() {
		kfmt.Fprintf(w, " rw")
	}
	if entry.IsHuge() {
		kfmt.Fprintf(w, " huge")
	}
	if !entry.IsExecutable() {
		kfmt.Fprintf(w, " nx")
	}
	kfmt.Fprintf(w, "\n")
}
