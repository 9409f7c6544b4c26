package kfmt

import "io"

// PrefixWriter is an io.Writer that wraps another io.Writer and injects a
// prefix at the beginning of each line. PrefixWriters can be nested to
// produce indented output.
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	// midLine is set when the last written byte was not a line feed.
	midLine bool
}

// Write writes len(p) bytes from p to the underlying sink. The injected
// prefixes are not included in the returned byte count.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written, lineStart int

	for index := 0; index < len(p); index++ {
		if !w.midLine {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		if p[index] != '\n' {
			continue
		}

		n, err := w.Sink.Write(p[lineStart : index+1])
		written += n
		if err != nil {
			return written, err
		}
		lineStart = index + 1
		w.midLine = false
	}

	if lineStart < len(p) {
		n, err := w.Sink.Write(p[lineStart:])
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}
