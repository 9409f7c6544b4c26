// Package tty implements terminals on top of text consoles.
package tty

import "github.com/budde25/os/kernel/driver/video/console"

const (
	defaultFg = console.LightGrey
	defaultBg = console.Black
	tabWidth  = 4
)

// Vt implements a simple terminal that can process LF, CR, TAB and BS
// characters. The terminal uses a console device for its output and is used
// as the kfmt output sink once the console framebuffer is reachable.
type Vt struct {
	// Interfaces are avoided so that the terminal can be used before the
	// Go allocator is set up.
	cons *console.Ega

	width  uint16
	height uint16

	curX    uint16
	curY    uint16
	curAttr console.Attr
}

// AttachTo connects the terminal to a console and resets its state.
func (t *Vt) AttachTo(cons *console.Ega) {
	t.cons = cons
	t.width, t.height = cons.Dimensions()
	t.curX = 0
	t.curY = 0

	// Default to lightgrey on black text.
	t.curAttr = makeAttr(defaultFg, defaultBg)
}

// Dimensions returns the width and height of the terminal in characters.
func (t *Vt) Dimensions() (uint16, uint16) {
	return t.width, t.height
}

// Clear clears the terminal.
func (t *Vt) Clear() {
	t.cons.Acquire()
	t.clear()
	t.cons.Release()
}

// Position returns the current cursor position (x, y).
func (t *Vt) Position() (uint16, uint16) {
	t.cons.Acquire()
	defer t.cons.Release()

	return t.curX, t.curY
}

// SetPosition sets the current cursor position to (x,y).
func (t *Vt) SetPosition(x, y uint16) {
	t.cons.Acquire()
	defer t.cons.Release()

	if x >= t.width {
		x = t.width - 1
	}

	if y >= t.height {
		y = t.height - 1
	}

	t.curX, t.curY = x, y
}

// Write implements io.Writer.
func (t *Vt) Write(data []byte) (int, error) {
	t.cons.Acquire()
	for _, b := range data {
		t.writeByte(b)
	}
	t.cons.Release()

	return len(data), nil
}

// WriteByte implements io.ByteWriter.
func (t *Vt) WriteByte(b byte) error {
	t.cons.Acquire()
	t.writeByte(b)
	t.cons.Release()

	return nil
}

// WriteAtPosition writes a character at (x, y) using the supplied attribute
// without moving the cursor.
func (t *Vt) WriteAtPosition(x, y uint16, attr console.Attr, b byte) {
	t.cons.Acquire()
	t.cons.Write(b, attr, x, y)
	t.cons.Release()
}

func (t *Vt) writeByte(b byte) {
	switch b {
	case '\r':
		t.cr()
	case '\n':
		t.cr()
		t.lf()
	case '\b':
		if t.curX > 0 {
			t.curX--
		}
	case '\t':
		for i := 0; i < tabWidth; i++ {
			t.putChar(' ')
		}
	default:
		t.putChar(b)
	}
}

// putChar writes b at the cursor and advances it, wrapping to the next line
// when the end of the current line is reached.
func (t *Vt) putChar(b byte) {
	t.cons.Write(b, t.curAttr, t.curX, t.curY)
	t.curX++
	if t.curX == t.width {
		t.cr()
		t.lf()
	}
}

// clear clears the terminal.
func (t *Vt) clear() {
	t.cons.Clear(0, 0, t.width, t.height)
}

// cr resets the x coordinate of the terminal cursor to 0.
func (t *Vt) cr() {
	t.curX = 0
}

// lf advances the y coordinate of the terminal cursor by one line scrolling
// the terminal contents if the end of the last terminal line is reached.
func (t *Vt) lf() {
	if t.curY+1 < t.height {
		t.curY++
		return
	}

	t.cons.Scroll(console.Up, 1)
	t.cons.Clear(0, t.height-1, t.width, 1)
}

func makeAttr(fg, bg console.Attr) console.Attr {
	return (bg << 4) | (fg & 0xF)
}
