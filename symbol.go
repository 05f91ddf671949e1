package noldor

var symbolMetatype = &Metatype{
	Name:   "symbol",
	Static: true,
	Repr:   func(v Value) string { return v.header().payload.(string) },
}

// IsSymbol reports whether v is a symbol.
func IsSymbol(v Value) bool {
	return v.IsPointer() && v.header().metatype == symbolMetatype
}

// SymbolName returns the interned name of a symbol value.
func SymbolName(v Value) string {
	if !IsSymbol(v) {
		panic("noldor: SymbolName called on non-symbol value")
	}
	return v.header().payload.(string)
}

// SymbolTable interns symbol names onto a process-wide-per-interpreter
// map, guaranteeing that equal names yield eq?-identical values (§4.3).
type SymbolTable struct {
	heap    *Heap
	interned map[string]Value
}

// NewSymbolTable returns an empty symbol table backed by heap.
func NewSymbolTable(heap *Heap) *SymbolTable {
	return &SymbolTable{heap: heap, interned: make(map[string]Value)}
}

// Intern returns the unique symbol value for name, allocating it on
// first use. Symbols are static: they are never reclaimed by the GC.
func (t *SymbolTable) Intern(name string) Value {
	if v, ok := t.interned[name]; ok {
		return v
	}
	v := t.heap.allocate(symbolMetatype, name)
	v.header().mark = markLive
	t.interned[name] = v
	return v
}
