// Package hal sets up the hardware the kernel uses for its output.
package hal

import (
	"github.com/budde25/os/kernel/driver/tty"
	"github.com/budde25/os/kernel/driver/video/console"
	"github.com/budde25/os/kernel/kfmt"
)

const (
	egaWidth  = 80
	egaHeight = 25
)

var (
	egaConsole = &console.Ega{}

	// ActiveTerminal points to the currently active terminal.
	ActiveTerminal = &tty.Vt{}

	// egaFramebufferFn returns the address of the EGA framebuffer. Tests
	// override it to render into regular memory.
	egaFramebufferFn = func() uintptr {
		return uintptr(console.EgaFramebuffer.AsPtr())
	}
)

// InitTerminal attaches ActiveTerminal to the EGA text console and makes it
// the kfmt output sink. Any output buffered by kfmt so far is written to the
// terminal. The framebuffer is reached through the physical memory window so
// InitTerminal must be called after all physical memory has been mapped.
func InitTerminal() {
	egaConsole.Init(egaWidth, egaHeight, egaFramebufferFn())
	ActiveTerminal.AttachTo(egaConsole)
	ActiveTerminal.Clear()

	kfmt.SetOutputSink(ActiveTerminal)
}
