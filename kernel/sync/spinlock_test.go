package sync

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/budde25/os/kernel/cpu"
)

func TestSpinlock(t *testing.T) {
	// Substitute the yieldFn with runtime.Gosched to avoid deadlocks while testing
	defer func(origYieldFn func()) { yieldFn = origYieldFn }(yieldFn)
	yieldFn = runtime.Gosched

	var (
		sl         Spinlock
		wg         sync.WaitGroup
		numWorkers = 10
	)

	sl.Acquire()

	if sl.TryToAcquire() != false {
		t.Error("expected TryToAcquire to return false when lock is held")
	}

	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(worker int) {
			sl.Acquire()
			sl.Release()
			wg.Done()
		}(i)
	}

	<-time.After(100 * time.Millisecond)
	sl.Release()
	wg.Wait()

	if !sl.TryToAcquire() {
		t.Error("expected TryToAcquire to succeed once all workers released the lock")
	}
}

func TestIRQSpinlock(t *testing.T) {
	defer func() {
		interruptsEnabledFn = cpu.InterruptsEnabled
		disableInterruptsFn = cpu.DisableInterrupts
		enableInterruptsFn = cpu.EnableInterrupts
	}()

	var ifFlag bool
	interruptsEnabledFn = func() bool { return ifFlag }
	disableInterruptsFn = func() { ifFlag = false }
	enableInterruptsFn = func() { ifFlag = true }

	specs := []struct {
		interruptsEnabled bool
	}{
		{true},
		{false},
	}

	for specIndex, spec := range specs {
		var l IRQSpinlock
		ifFlag = spec.interruptsEnabled

		l.Acquire()
		if ifFlag {
			t.Errorf("[spec %d] expected interrupts to be disabled while the lock is held", specIndex)
		}

		if l.lock.TryToAcquire() {
			t.Errorf("[spec %d] expected the underlying spinlock to be held", specIndex)
		}

		l.Release()
		if ifFlag != spec.interruptsEnabled {
			t.Errorf("[spec %d] expected interrupt flag to be restored to %t; got %t", specIndex, spec.interruptsEnabled, ifFlag)
		}

		if !l.lock.TryToAcquire() {
			t.Errorf("[spec %d] expected the underlying spinlock to be free after Release", specIndex)
		}
	}
}
