package noldor

import (
	"fmt"
	"io"
	"os"

	"github.com/al-khanji/noldor/ascii"
)

// REPL drives the read-eval-print loop over a single input port,
// writing prompts and results to out and errors to stderr (§11.2,
// grounded in the source
// noldor.cpp's repl(): read one form, evaluate it in the global
// environment, print its representation prefixed by result_prefix,
// and loop until the input port reports eof).
type REPL struct {
	interp      *Interpreter
	in          Value
	out         io.Writer
	showPrompts bool
}

// NewREPL builds a REPL reading from in (already wrapped as a port)
// and writing prompts/results to out.
func NewREPL(interp *Interpreter, in Value, out io.Writer) *REPL {
	return &REPL{interp: interp, in: in, out: out, showPrompts: true}
}

// NewREPLStdio builds a REPL over the process's stdin/stdout,
// suppressing the prompt when showPrompts is false (piped input).
func NewREPLStdio(interp *Interpreter, showPrompts bool) *REPL {
	in := interp.heap.WrapReader(os.Stdin)
	return &REPL{interp: interp, in: in, out: os.Stdout, showPrompts: showPrompts}
}

// Run loops until the input port is exhausted. A read or eval error is
// reported to stderr and the loop continues, matching a REPL's usual
// behavior of surviving a single bad form.
func (r *REPL) Run() {
	prompt := r.interp.config.GetString("repl.prompt")
	resultPrefix := r.interp.config.GetString("repl.result_prefix")

	for {
		if r.showPrompts {
			fmt.Fprint(r.out, ascii.Color(ascii.Cyan, "%s", prompt))
		}

		form, err := r.interp.Read(r.in)
		if err != nil {
			fmt.Fprintln(os.Stderr, ascii.Color(ascii.Red, "read error: %s", err))
			continue
		}
		if IsEOF(form) {
			fmt.Fprintln(r.out)
			return
		}

		val, err := r.interp.Eval(form, r.interp.GlobalEnvironment())
		if err != nil {
			fmt.Fprintln(os.Stderr, ascii.Color(ascii.Red, "%s", err))
			continue
		}

		fmt.Fprintln(r.out, ascii.Color(ascii.Green, "%s%s", resultPrefix, Repr(val)))
	}
}

// LoadFile reads and evaluates every top-level form in path against
// the global environment, returning the first error encountered.
func (i *Interpreter) LoadFile(path string) error {
	port, err := i.heap.OpenInputFile(path)
	if err != nil {
		return err
	}
	defer ClosePort(port)

	for {
		form, err := i.Read(port)
		if err != nil {
			return err
		}
		if IsEOF(form) {
			return nil
		}
		if _, err := i.Eval(form, i.global); err != nil {
			return err
		}
	}
}
