package vmm

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpTables(t *testing.T) {
	m, mapper, restore := newBootstrappedMapper(t)
	defer restore()

	mapper.P4().Entry(511).SetAddress(0x7000, FlagPresent|FlagNoExecute)

	var buf bytes.Buffer
	mapper.DumpTables(&buf)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	// header + window P4 entry + window P3 entries + arena + last P4 entry
	if exp := 1 + 1 + windowP3Slots + 1 + 1; len(lines) != exp {
		t.Fatalf("expected %d lines of output; got %d:\n%s", exp, len(lines), buf.String())
	}

	specs := []struct {
		line int
		exp  string
	}{
		{0, "P4 table at 0x9000"},
		{1, "[256] 0x0000000000100000 rw"},
		{2, "    [  0] 0x0000000000101000 rw"},
		{33, "    [ 31] 0x0000000000120000 rw"},
		{34, "    [ 32] 0x0000000000121000 rw"},
		{35, "[511] 0x0000000000007000 nx"},
	}

	for specIndex, spec := range specs {
		if got := lines[spec.line]; got != spec.exp {
			t.Errorf("[spec %d] expected line %d to be %q; got %q", specIndex, spec.line, spec.exp, got)
		}
	}

	if m.lockHeld {
		t.Fatal("expected the mapper lock to be released")
	}
}
