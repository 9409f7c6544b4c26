package kfmt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/budde25/os/kernel"
	"github.com/budde25/os/kernel/cpu"
)

func TestPanic(t *testing.T) {
	defer func() {
		cpuHaltFn = cpu.Halt
		SetOutputSink(nil)
	}()

	var (
		buf            bytes.Buffer
		cpuHaltCalled  bool
		expBanner      = "\n-----------------------------------\n"
		expHaltMessage = "*** kernel panic: system halted ***"
	)

	cpuHaltFn = func() {
		cpuHaltCalled = true
	}
	SetOutputSink(&buf)

	specs := []struct {
		descr string
		arg   interface{}
		exp   string
	}{
		{
			"with *kernel.Error",
			&kernel.Error{Module: "vmm", Message: "PageTable out of memory"},
			expBanner + "[vmm] unrecoverable error: PageTable out of memory\n" + expHaltMessage + expBanner,
		},
		{
			"with error",
			errors.New("go error"),
			expBanner + "[rt] unrecoverable error: go error\n" + expHaltMessage + expBanner,
		},
		{
			"with string",
			"string error",
			expBanner + "[rt] unrecoverable error: string error\n" + expHaltMessage + expBanner,
		},
		{
			"without error",
			nil,
			expBanner + expHaltMessage + expBanner,
		},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			buf.Reset()
			cpuHaltCalled = false

			Panic(spec.arg)

			if got := buf.String(); got != spec.exp {
				t.Fatalf("expected to get:\n%q\ngot:\n%q", spec.exp, got)
			}

			if !cpuHaltCalled {
				t.Fatal("expected cpu.Halt() to be called by Panic")
			}
		})
	}
}
