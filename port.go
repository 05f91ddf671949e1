package noldor

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// port flag bits, carried over from the original port object's flags
// field (§11.1).
const (
	portInput  = 1 << iota // readable
	portOutput             // writable
	portOpen               // not yet closed
)

type portPayload struct {
	flags int

	// which of these are set depends on the medium: file (plus reader
	// when readable) for file ports, reader for string and wrapped input
	// ports, buf for string output ports, writer for wrapped output ports
	file   *os.File
	reader *bufio.Reader
	buf    *bytes.Buffer
	writer io.Writer

	pushback []rune
}

var portMetatype = &Metatype{
	Name: "port",
	Destruct: func(v Value) {
		p := v.header().payload.(*portPayload)
		if p.file != nil && p.flags&portOpen != 0 {
			p.file.Close()
			p.flags &^= portOpen
		}
	},
	Repr: func(Value) string { return "#<port>" },
}

// IsPort reports whether v is a port.
func IsPort(v Value) bool { return v.IsPointer() && v.header().metatype == portMetatype }

func portOf(v Value) *portPayload {
	if !IsPort(v) {
		panic("noldor: port operation on non-port value")
	}
	return v.header().payload.(*portPayload)
}

// IsInputPort reports whether v is readable.
func IsInputPort(v Value) bool { return IsPort(v) && portOf(v).flags&portInput != 0 }

// IsOutputPort reports whether v is writable.
func IsOutputPort(v Value) bool { return IsPort(v) && portOf(v).flags&portOutput != 0 }

// OpenInputFile opens path for reading as a textual input port.
func (h *Heap) OpenInputFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &FileError{Message: err.Error()}
	}
	return h.allocate(portMetatype, &portPayload{
		flags:  portInput | portOpen,
		file:   f,
		reader: bufio.NewReader(f),
	}), nil
}

// OpenOutputFile creates/truncates path as a textual output port.
func (h *Heap) OpenOutputFile(path string) (Value, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, &FileError{Message: err.Error()}
	}
	return h.allocate(portMetatype, &portPayload{
		flags: portOutput | portOpen,
		file:  f,
	}), nil
}

// OpenInputString opens an in-memory input port over s.
func (h *Heap) OpenInputString(s string) Value {
	return h.allocate(portMetatype, &portPayload{
		flags:  portInput | portOpen,
		reader: bufio.NewReader(bytes.NewBufferString(s)),
	})
}

// OpenOutputString opens an in-memory output port.
func (h *Heap) OpenOutputString() Value {
	return h.allocate(portMetatype, &portPayload{
		flags: portOutput | portOpen,
		buf:   &bytes.Buffer{},
	})
}

// WrapReader opens a textual input port over an existing io.Reader
// (used for stdin in the REPL, §11.2).
func (h *Heap) WrapReader(r io.Reader) Value {
	return h.allocate(portMetatype, &portPayload{
		flags:  portInput | portOpen,
		reader: bufio.NewReader(r),
	})
}

// WrapWriter opens a textual output port over an existing io.Writer.
func (h *Heap) WrapWriter(w io.Writer) Value {
	return h.allocate(portMetatype, &portPayload{
		flags: portOutput | portOpen,
		file:  nil,
		buf:   nil,
	}).withWriter(w)
}

func (v Value) withWriter(w io.Writer) Value {
	portOf(v).writer = w
	return v
}

// GetOutputString returns the accumulated contents of a string output
// port.
func GetOutputString(v Value) string {
	p := portOf(v)
	if p.buf == nil {
		return ""
	}
	return p.buf.String()
}

// ClosePort releases a port's underlying resource; safe to call more
// than once.
func ClosePort(v Value) {
	p := portOf(v)
	if p.flags&portOpen == 0 {
		return
	}
	p.flags &^= portOpen
	if p.file != nil {
		p.file.Close()
	}
}

// ReadChar reads one rune from an input port, returning isEOF=true at
// exhaustion (§6 "Ports": never blocks beyond a single read).
func ReadChar(v Value) (r rune, isEOF bool, err error) {
	p := portOf(v)
	if len(p.pushback) > 0 {
		r = p.pushback[len(p.pushback)-1]
		p.pushback = p.pushback[:len(p.pushback)-1]
		return r, false, nil
	}
	r, _, rerr := p.reader.ReadRune()
	if rerr == io.EOF {
		return 0, true, nil
	}
	if rerr != nil {
		return 0, false, &FileError{Message: rerr.Error()}
	}
	return r, false, nil
}

// PeekChar reads one rune without consuming it.
func PeekChar(v Value) (r rune, isEOF bool, err error) {
	r, isEOF, err = ReadChar(v)
	if err != nil || isEOF {
		return r, isEOF, err
	}
	portOf(v).pushback = append(portOf(v).pushback, r)
	return r, false, nil
}

// WriteString writes s to an output port.
func WriteString(v Value, s string) error {
	p := portOf(v)
	switch {
	case p.buf != nil:
		p.buf.WriteString(s)
	case p.writer != nil:
		if _, err := io.WriteString(p.writer, s); err != nil {
			return &FileError{Message: err.Error()}
		}
	case p.file != nil:
		if _, err := p.file.WriteString(s); err != nil {
			return &FileError{Message: err.Error()}
		}
	}
	return nil
}
