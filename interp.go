package noldor

import (
	"context"
	"os"

	"github.com/al-khanji/noldor/internal/ilog"
)

// Interpreter owns everything one running Scheme image needs: the
// heap, the symbol table, the interned syntax keywords, the atom
// singletons, the global environment, configuration, and a logger
// (§11.5). Unlike the source implementation's process-wide globals,
// nothing here is package-level state, so two Interpreters can coexist
// in one process (§9 "Global state").
type Interpreter struct {
	heap    *Heap
	symbols *SymbolTable
	kw      *syntaxKeywords
	atoms   *atoms
	global  Value
	config  *Config
	log     *ilog.Logger

	stdin  Value
	stdout Value
}

// New builds an Interpreter with default configuration, the standard
// atom singletons, and every primitive procedure registered into a
// fresh global environment (§3.5, §4.7).
func New() *Interpreter {
	return NewWithConfig(NewConfig())
}

// NewWithConfig builds an Interpreter using the given configuration,
// useful for tests that want gc.log_cycles or eval.trace on.
func NewWithConfig(cfg *Config) *Interpreter {
	heap := NewHeap()
	symbols := NewSymbolTable(heap)
	i := &Interpreter{
		heap:    heap,
		symbols: symbols,
		kw:      newSyntaxKeywords(symbols),
		atoms:   newAtoms(heap),
		config:  cfg,
		log:     ilog.New(),
	}
	i.global = heap.MkEnvironment(i.atoms.null)
	i.stdin = heap.WrapReader(os.Stdin)
	i.stdout = heap.WrapWriter(os.Stdout)
	heap.Register(i) // lives for the interpreter's whole lifetime; never deregistered
	registerPrimitives(i)
	return i
}

// VisitRoots implements Scope: the global environment and the standard
// ports are roots for as long as the interpreter itself is alive.
func (i *Interpreter) VisitRoots(fn func(Value)) {
	fn(i.global)
	fn(i.stdin)
	fn(i.stdout)
}

// Heap exposes the interpreter's heap, e.g. for an explicit (gc) primitive.
func (i *Interpreter) Heap() *Heap { return i.heap }

// Symbols exposes the interpreter's symbol table, e.g. for a reader
// that needs to intern identifiers as it tokenizes.
func (i *Interpreter) Symbols() *SymbolTable { return i.symbols }

// GlobalEnvironment returns the top-level environment new top-level
// forms are evaluated in.
func (i *Interpreter) GlobalEnvironment() Value { return i.global }

// Null, True, False, and EOF return this interpreter's atom singletons.
func (i *Interpreter) Null() Value  { return i.atoms.null }
func (i *Interpreter) True() Value  { return i.atoms.t }
func (i *Interpreter) False() Value { return i.atoms.f }
func (i *Interpreter) EOF() Value   { return i.atoms.eof }

// Config returns the interpreter's live configuration.
func (i *Interpreter) Config() *Config { return i.config }

// Sync flushes any buffered log entries; callers should defer this
// before the process exits.
func (i *Interpreter) Sync() error {
	return i.log.Sync()
}

// RunGC forces one mark-sweep pass, logging the outcome when
// gc.log_cycles is set (§4.1, §10.1).
func (i *Interpreter) RunGC() GCStats {
	stats := i.heap.RunGC()
	if i.config.GetBool("gc.log_cycles") {
		i.log.GC(stats.ObjectsFreed, stats.ObjectsLive)
	}
	return stats
}

// EvalContext evaluates expr in env, aborting before starting if ctx
// is already done. Cancellation is checked only at this API boundary,
// not inside the register machine's dispatch loop (§11.5): the
// explicit-control evaluator's tightest inner loop stays free of
// context-plumbing overhead, at the cost of not preempting a single
// already-running top-level form.
func (i *Interpreter) EvalContext(ctx context.Context, expr, env Value) (Value, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return i.Eval(expr, env)
}
