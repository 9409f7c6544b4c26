// Package sync provides synchronization primitive implementations for spinlocks.
package sync

import (
	"sync/atomic"

	"github.com/budde25/os/kernel/cpu"
)

var (
	// TODO: replace with real yield function when context-switching is implemented.
	yieldFn func()

	// The following functions are mocked by tests and are automatically
	// inlined by the compiler.
	interruptsEnabledFn = cpu.InterruptsEnabled
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
)

// attemptsBeforeYielding defines the number of failed acquisition attempts
// after which the spinning task yields (if a yield function is available).
const attemptsBeforeYielding = 64

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will cause
// a deadlock.
func (l *Spinlock) Acquire() {
	for attempt := uint32(1); !atomic.CompareAndSwapUint32(&l.state, 0, 1); attempt++ {
		if attempt%attemptsBeforeYielding == 0 && yieldFn != nil {
			yieldFn()
		}
	}
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock allowing other tasks to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

// IRQSpinlock is a Spinlock that keeps interrupts disabled on the local core
// while it is held. Interrupt handlers running on the same core can therefore
// never observe the protected state half-updated, nor spin forever on a lock
// owned by the code they interrupted.
type IRQSpinlock struct {
	lock Spinlock

	// restoreInterrupts is only accessed while the lock is held.
	restoreInterrupts bool
}

// Acquire disables interrupts and then spins until the lock is acquired. The
// interrupt state at the time of the call is restored by Release.
func (l *IRQSpinlock) Acquire() {
	enabled := interruptsEnabledFn()
	disableInterruptsFn()
	l.lock.Acquire()
	l.restoreInterrupts = enabled
}

// Release relinquishes the lock and re-enables interrupts if they were enabled
// when Acquire was called.
func (l *IRQSpinlock) Release() {
	restore := l.restoreInterrupts
	l.restoreInterrupts = false
	l.lock.Release()

	if restore {
		enableInterruptsFn()
	}
}
