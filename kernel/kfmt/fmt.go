// Package kfmt implements allocation-free formatted output for code that runs
// before (or without) the Go allocator, together with the kernel panic
// handler.
package kfmt

import (
	"io"
	"unsafe"
)

// maxBufSize defines the buffer size for formatting numbers.
const maxBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	numFmtBuf = []byte("012345678901234567890123456789012")

	// singleByte is used as a shared buffer for passing single characters
	// to doWrite.
	singleByte = []byte(" ")

	// earlyPrintBuffer stores Printf output until an output sink is
	// attached via SetOutputSink.
	earlyPrintBuffer ringBuffer

	// outputSink is the io.Writer that receives Printf output. While nil,
	// output is captured by earlyPrintBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the default target for calls to Printf to w and copies
// any data accumulated in the earlyPrintBuffer to it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyPrintBuffer)
	}
}

// Printf provides a minimal Printf implementation that can be safely used
// before the Go allocator is available. The following subset of the fmt verbs
// is supported:
//
//	%s the uninterpreted bytes of a string or byte slice
//	%o base 8
//	%d base 10
//	%x base 16, with lower-case letters for a-f
//	%t "true" or "false"
//
// An optional decimal width may precede the verb. Strings and base-10 values
// are left-padded with spaces; base-8 and base-16 values with zeroes.
//
// Named types are not unwrapped: callers must convert values such as
// mem.PhysicalAddress to their underlying integer type.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but it writes the formatted output to
// the specified io.Writer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		ch         byte
		argIndex   int
		padLen     int
		blockStart int
		cur        int
		fmtLen     = len(format)
	)

	for cur < fmtLen {
		if format[cur] != '%' {
			cur++
			continue
		}

		writeString(w, format[blockStart:cur])

		padLen = 0
		cur++
	parseVerb:
		for ; cur < fmtLen; cur++ {
			ch = format[cur]
			switch {
			case ch == '%':
				writeByte(w, '%')
				break parseVerb
			case ch >= '0' && ch <= '9':
				padLen = padLen*10 + int(ch-'0')
			case ch == 'd' || ch == 'x' || ch == 'o' || ch == 's' || ch == 't':
				if argIndex >= len(args) {
					doWrite(w, errMissingArg)
					break parseVerb
				}

				switch ch {
				case 'o':
					fmtInt(w, args[argIndex], 8, padLen)
				case 'd':
					fmtInt(w, args[argIndex], 10, padLen)
				case 'x':
					fmtInt(w, args[argIndex], 16, padLen)
				case 's':
					fmtString(w, args[argIndex], padLen)
				case 't':
					fmtBool(w, args[argIndex])
				}

				argIndex++
				break parseVerb
			default:
				doWrite(w, errNoVerb)
				break parseVerb
			}
		}

		if cur == fmtLen {
			// format ended while parsing the width
			doWrite(w, errNoVerb)
		}

		cur++
		blockStart = cur
	}

	if blockStart < fmtLen {
		writeString(w, format[blockStart:])
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

// writeString emits s one byte at a time; converting s to a byte slice would
// trigger an allocation.
func writeString(w io.Writer, s string) {
	for i := 0; i < len(s); i++ {
		writeByte(w, s[i])
	}
}

func writeByte(w io.Writer, b byte) {
	singleByte[0] = b
	doWrite(w, singleByte)
}

// fmtBool prints a formatted version of boolean value v.
func fmtBool(w io.Writer, v interface{}) {
	bVal, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case bVal:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

// fmtString prints a formatted version of string or []byte value v, applying
// the padding specified by padLen.
func fmtString(w io.Writer, v interface{}, padLen int) {
	switch castedVal := v.(type) {
	case string:
		fmtRepeat(w, ' ', padLen-len(castedVal))
		writeString(w, castedVal)
	case []byte:
		fmtRepeat(w, ' ', padLen-len(castedVal))
		doWrite(w, castedVal)
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtRepeat writes count bytes with value ch.
func fmtRepeat(w io.Writer, ch byte, count int) {
	for i := 0; i < count; i++ {
		writeByte(w, ch)
	}
}

// fmtInt prints out a formatted version of v in the requested base, applying
// the padding specified by padLen. All built-in signed and unsigned integer
// types are supported.
func fmtInt(w io.Writer, v interface{}, base, padLen int) {
	var (
		uval      uint64
		negative  bool
		divider   = uint64(base)
		remainder uint64
		padCh     = byte('0')
		right     int
	)

	if padLen >= maxBufSize {
		padLen = maxBufSize - 1
	}

	if base == 10 {
		padCh = ' '
	}

	switch t := v.(type) {
	case uint8:
		uval = uint64(t)
	case uint16:
		uval = uint64(t)
	case uint32:
		uval = uint64(t)
	case uint64:
		uval = t
	case uint:
		uval = uint64(t)
	case uintptr:
		uval = uint64(t)
	case int8:
		uval, negative = abs(int64(t))
	case int16:
		uval, negative = abs(int64(t))
	case int32:
		uval, negative = abs(int64(t))
	case int64:
		uval, negative = abs(t)
	case int:
		uval, negative = abs(int64(t))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	// Digits are generated in reverse order
	for right < maxBufSize {
		remainder = uval % divider
		if remainder < 10 {
			numFmtBuf[right] = byte(remainder) + '0'
		} else {
			numFmtBuf[right] = byte(remainder-10) + 'a'
		}
		right++

		uval /= divider
		if uval == 0 {
			break
		}
	}

	if negative && padCh == ' ' {
		numFmtBuf[right] = '-'
		right++
	}

	for ; right < padLen && right < maxBufSize; right++ {
		numFmtBuf[right] = padCh
	}

	// Zero-padded values carry their sign in front of the padding
	if negative && padCh == '0' {
		numFmtBuf[right] = '-'
		right++
	}

	for left, end := 0, right-1; left < end; left, end = left+1, end-1 {
		numFmtBuf[left], numFmtBuf[end] = numFmtBuf[end], numFmtBuf[left]
	}

	doWrite(w, numFmtBuf[0:right])
}

func abs(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

// doWrite is a proxy that uses the runtime.noescape hack to hide p from the
// compiler's escape analysis. Without this hack, the compiler flags p as
// escaping (due to the call to the unknown outputSink) and every Printf call
// would allocate.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyPrintBuffer.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
