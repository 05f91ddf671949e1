package noldor

import (
	"fmt"
	"os"
)

// registerPrimitives binds every built-in procedure into i's global
// environment (§4.7), grounded in the source's
// X_NOLDOR_SHARED_PROCEDURES(X) catalogue macro: each entry there
// becomes one def() call here, against the same Go-native name.
func registerPrimitives(i *Interpreter) {
	h := i.heap
	null := i.atoms.null

	def := func(name string, fn PrimitiveFunc) {
		EnvironmentDefine(i.global, i.symbols.Intern(name), h.MkPrimitiveProcedure(name, fn))
	}

	// ---- arithmetic ----

	def("+", func(_ *Interpreter, args []Value) (Value, error) {
		acc := FromInt32(0)
		for _, a := range args {
			if err := requireNumber(a, "+"); err != nil {
				return 0, err
			}
			acc = numAdd(acc, a)
		}
		return acc, nil
	})

	def("*", func(_ *Interpreter, args []Value) (Value, error) {
		acc := FromInt32(1)
		for _, a := range args {
			if err := requireNumber(a, "*"); err != nil {
				return 0, err
			}
			acc = numMul(acc, a)
		}
		return acc, nil
	})

	def("-", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) == 0 {
			return 0, &CallError{Message: "- requires at least 1 argument"}
		}
		for _, a := range args {
			if err := requireNumber(a, "-"); err != nil {
				return 0, err
			}
		}
		if len(args) == 1 {
			return numSub(FromInt32(0), args[0]), nil
		}
		acc := args[0]
		for _, a := range args[1:] {
			acc = numSub(acc, a)
		}
		return acc, nil
	})

	def("/", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) == 0 {
			return 0, &CallError{Message: "/ requires at least 1 argument"}
		}
		for _, a := range args {
			if err := requireNumber(a, "/"); err != nil {
				return 0, err
			}
		}
		if len(args) == 1 {
			return numDiv(FromInt32(1), args[0])
		}
		acc := args[0]
		var err error
		for _, a := range args[1:] {
			acc, err = numDiv(acc, a)
			if err != nil {
				return 0, err
			}
		}
		return acc, nil
	})

	def("quotient", numericBinop("quotient", numQuotient))
	def("remainder", numericBinop("remainder", numRemainder))
	def("modulo", numericBinop("modulo", numModulo))

	def("abs", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return 0, &CallError{Message: "abs requires 1 argument"}
		}
		if err := requireNumber(args[0], "abs"); err != nil {
			return 0, err
		}
		return numAbs(args[0]), nil
	})

	def("max", numericFold("max", numMax))
	def("min", numericFold("min", numMin))

	def("=", numericChain("=", numEq))
	def("<", numericChain("<", numLt))
	def(">", numericChain(">", numGt))
	def("<=", numericChain("<=", numLe))
	def(">=", numericChain(">=", numGe))

	def("zero?", numericPredicate("zero?", numIsZero))
	def("positive?", numericPredicate("positive?", numIsPositive))
	def("negative?", numericPredicate("negative?", numIsNegative))
	def("odd?", numericPredicate("odd?", numIsOdd))
	def("even?", numericPredicate("even?", numIsEven))

	def("number?", typePredicate1(func(v Value) bool { return v.IsInt32() || v.IsDouble() }))

	// ---- equivalence ----

	def("eq?", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 {
			return 0, &CallError{Message: "eq? requires 2 arguments"}
		}
		return boolOf(i, Eq(args[0], args[1])), nil
	})
	def("eqv?", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 {
			return 0, &CallError{Message: "eqv? requires 2 arguments"}
		}
		return boolOf(i, eqv(args[0], args[1])), nil
	})
	def("equal?", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 {
			return 0, &CallError{Message: "equal? requires 2 arguments"}
		}
		return boolOf(i, equalValues(args[0], args[1], null)), nil
	})

	// ---- pairs and lists ----

	def("cons", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 {
			return 0, &CallError{Message: "cons requires 2 arguments"}
		}
		return h.Cons(args[0], args[1]), nil
	})
	def("car", accessor1("car", func(v Value) (Value, error) {
		if !IsPair(v) {
			return 0, &TypeError{Message: "car of non-pair", Irritants: v}
		}
		return Car(v), nil
	}))
	def("cdr", accessor1("cdr", func(v Value) (Value, error) {
		if !IsPair(v) {
			return 0, &TypeError{Message: "cdr of non-pair", Irritants: v}
		}
		return Cdr(v), nil
	}))
	def("set-car!", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || !IsPair(args[0]) {
			return 0, &TypeError{Message: "set-car! requires (pair, value)"}
		}
		SetCar(args[0], args[1])
		return i.kw.ok, nil
	})
	def("set-cdr!", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || !IsPair(args[0]) {
			return 0, &TypeError{Message: "set-cdr! requires (pair, value)"}
		}
		SetCdr(args[0], args[1])
		return i.kw.ok, nil
	})

	for name, fn := range map[string]func(Value) Value{
		"caar": Caar, "cadr": Cadr, "cdar": Cdar, "cddr": Cddr,
		"caaar": Caaar, "caadr": Caadr, "cadar": Cadar, "caddr": Caddr,
		"cdaar": Cdaar, "cdadr": Cdadr, "cddar": Cddar, "cdddr": Cdddr,
		"caaaar": Caaaar, "caaadr": Caaadr, "caadar": Caadar, "caaddr": Caaddr,
		"cadaar": Cadaar, "cadadr": Cadadr, "caddar": Caddar, "cadddr": Cadddr,
		"cdaaar": Cdaaar, "cdaadr": Cdaadr, "cdadar": Cdadar, "cdaddr": Cdaddr,
		"cddaar": Cddaar, "cddadr": Cddadr, "cdddar": Cdddar, "cddddr": Cddddr,
	} {
		name, fn := name, fn
		def(name, accessor1(name, func(v Value) (Value, error) {
			if !IsPair(v) {
				return 0, &TypeError{Message: name + " of non-pair", Irritants: v}
			}
			return fn(v), nil
		}))
	}

	def("pair?", typePredicate1(IsPair))
	def("null?", typePredicate1(func(v Value) bool { return IsNull(v) }))
	def("list?", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return 0, &CallError{Message: "list? requires 1 argument"}
		}
		return boolOf(i, IsList(args[0], null)), nil
	})
	def("list", func(_ *Interpreter, args []Value) (Value, error) {
		return h.List(null, args...), nil
	})
	def("length", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsList(args[0], null) {
			return 0, &TypeError{Message: "length requires a proper list"}
		}
		return FromInt32(ListLength(args[0], null)), nil
	})
	def("append", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) == 0 {
			return null, nil
		}
		acc := args[len(args)-1]
		for j := len(args) - 2; j >= 0; j-- {
			acc = h.Append(args[j], acc, null)
		}
		return acc, nil
	})
	def("reverse", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return 0, &CallError{Message: "reverse requires 1 argument"}
		}
		return h.Reverse(args[0], null), nil
	})
	def("list-tail", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || !args[1].IsInt32() {
			return 0, &CallError{Message: "list-tail requires (list, int)"}
		}
		return ListTail(args[0], args[1].Int32()), nil
	})
	def("list-ref", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || !args[1].IsInt32() {
			return 0, &CallError{Message: "list-ref requires (list, int)"}
		}
		return Car(ListTail(args[0], args[1].Int32())), nil
	})

	// ---- procedures ----

	def("procedure?", typePredicate1(IsProcedure))
	def("apply", func(interp *Interpreter, args []Value) (Value, error) {
		if len(args) < 2 {
			return 0, &CallError{Message: "apply requires at least 2 arguments"}
		}
		proc := args[0]
		spread := args[1 : len(args)-1]
		tail := args[len(args)-1]
		if !IsList(tail, null) {
			return 0, &TypeError{Message: "apply's last argument must be a list", Irritants: tail}
		}
		all := append(append([]Value{}, spread...), ListToSlice(tail, null)...)
		return interp.applyProcedure(proc, all)
	})

	// ---- symbols and booleans ----

	def("symbol?", typePredicate1(IsSymbol))
	def("boolean?", typePredicate1(IsBoolean))
	def("not", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return 0, &CallError{Message: "not requires 1 argument"}
		}
		return boolOf(i, IsFalse(args[0])), nil
	})

	// ---- characters and strings ----

	def("char?", typePredicate1(IsChar))
	def("string?", typePredicate1(IsString))
	def("vector?", typePredicate1(IsVector))
	def("eof-object?", typePredicate1(IsEOF))

	def("string-length", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsString(args[0]) {
			return 0, &TypeError{Message: "string-length requires a string"}
		}
		return FromInt32(int32(len([]rune(StringValue(args[0]))))), nil
	})
	def("string-ref", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || !IsString(args[0]) || !args[1].IsInt32() {
			return 0, &TypeError{Message: "string-ref requires (string, int)"}
		}
		runes := []rune(StringValue(args[0]))
		idx := args[1].Int32()
		if idx < 0 || int(idx) >= len(runes) {
			return 0, &RuntimeError{Message: "string-ref index out of range"}
		}
		return h.MkChar(runes[idx]), nil
	})
	def("string-append", func(_ *Interpreter, args []Value) (Value, error) {
		s := ""
		for _, a := range args {
			if !IsString(a) {
				return 0, &TypeError{Message: "string-append requires strings"}
			}
			s += StringValue(a)
		}
		return h.MkString(s), nil
	})
	def("string->symbol", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsString(args[0]) {
			return 0, &TypeError{Message: "string->symbol requires a string"}
		}
		return i.symbols.Intern(StringValue(args[0])), nil
	})
	def("symbol->string", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsSymbol(args[0]) {
			return 0, &TypeError{Message: "symbol->string requires a symbol"}
		}
		return h.MkString(SymbolName(args[0])), nil
	})
	def("char->integer", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsChar(args[0]) {
			return 0, &TypeError{Message: "char->integer requires a character"}
		}
		return FromInt32(int32(CharValue(args[0]))), nil
	})
	def("integer->char", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !args[0].IsInt32() {
			return 0, &TypeError{Message: "integer->char requires an integer"}
		}
		return h.MkChar(rune(args[0].Int32())), nil
	})

	// ---- vectors ----

	def("make-vector", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 || !args[0].IsInt32() {
			return 0, &TypeError{Message: "make-vector requires a length"}
		}
		fill := i.atoms.f
		if len(args) == 2 {
			fill = args[1]
		}
		elems := make([]Value, args[0].Int32())
		for j := range elems {
			elems[j] = fill
		}
		return h.MkVector(elems), nil
	})
	def("vector", func(_ *Interpreter, args []Value) (Value, error) {
		return h.MkVector(args), nil
	})
	def("vector-length", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsVector(args[0]) {
			return 0, &TypeError{Message: "vector-length requires a vector"}
		}
		return FromInt32(int32(len(*VectorElements(args[0])))), nil
	})
	def("vector-ref", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || !IsVector(args[0]) || !args[1].IsInt32() {
			return 0, &TypeError{Message: "vector-ref requires (vector, int)"}
		}
		elems := *VectorElements(args[0])
		idx := args[1].Int32()
		if idx < 0 || int(idx) >= len(elems) {
			return 0, &RuntimeError{Message: "vector-ref index out of range"}
		}
		return elems[idx], nil
	})
	def("vector-set!", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 3 || !IsVector(args[0]) || !args[1].IsInt32() {
			return 0, &TypeError{Message: "vector-set! requires (vector, int, value)"}
		}
		elems := VectorElements(args[0])
		idx := args[1].Int32()
		if idx < 0 || int(idx) >= len(*elems) {
			return 0, &RuntimeError{Message: "vector-set! index out of range"}
		}
		(*elems)[idx] = args[2]
		return i.kw.ok, nil
	})

	// ---- ports and I/O (§11.1) ----

	def("current-output-port", func(_ *Interpreter, _ []Value) (Value, error) {
		return i.stdout, nil
	})
	def("current-input-port", func(_ *Interpreter, _ []Value) (Value, error) {
		return i.stdin, nil
	})
	def("open-input-file", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsString(args[0]) {
			return 0, &TypeError{Message: "open-input-file requires a path string"}
		}
		return h.OpenInputFile(StringValue(args[0]))
	})
	def("open-output-file", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsString(args[0]) {
			return 0, &TypeError{Message: "open-output-file requires a path string"}
		}
		return h.OpenOutputFile(StringValue(args[0]))
	})
	def("open-input-string", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsString(args[0]) {
			return 0, &TypeError{Message: "open-input-string requires a string"}
		}
		return h.OpenInputString(StringValue(args[0])), nil
	})
	def("open-output-string", func(_ *Interpreter, _ []Value) (Value, error) {
		return h.OpenOutputString(), nil
	})
	def("get-output-string", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsPort(args[0]) {
			return 0, &TypeError{Message: "get-output-string requires a port"}
		}
		return h.MkString(GetOutputString(args[0])), nil
	})
	def("close-port", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !IsPort(args[0]) {
			return 0, &TypeError{Message: "close-port requires a port"}
		}
		ClosePort(args[0])
		return i.kw.ok, nil
	})
	def("read", func(interp *Interpreter, args []Value) (Value, error) {
		port := i.stdin
		if len(args) == 1 {
			port = args[0]
		}
		return interp.Read(port)
	})
	def("read-char", func(_ *Interpreter, args []Value) (Value, error) {
		port := i.stdin
		if len(args) == 1 {
			port = args[0]
		}
		r, isEOF, err := ReadChar(port)
		if err != nil {
			return 0, err
		}
		if isEOF {
			return i.atoms.eof, nil
		}
		return h.MkChar(r), nil
	})
	def("peek-char", func(_ *Interpreter, args []Value) (Value, error) {
		port := i.stdin
		if len(args) == 1 {
			port = args[0]
		}
		r, isEOF, err := PeekChar(port)
		if err != nil {
			return 0, err
		}
		if isEOF {
			return i.atoms.eof, nil
		}
		return h.MkChar(r), nil
	})
	def("write", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 {
			return 0, &CallError{Message: "write requires at least 1 argument"}
		}
		port := i.stdout
		if len(args) == 2 {
			port = args[1]
		}
		if err := WriteString(port, Repr(args[0])); err != nil {
			return 0, err
		}
		return i.kw.ok, nil
	})
	def("display", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 {
			return 0, &CallError{Message: "display requires at least 1 argument"}
		}
		port := i.stdout
		if len(args) == 2 {
			port = args[1]
		}
		if err := WriteString(port, displayString(args[0])); err != nil {
			return 0, err
		}
		return i.kw.ok, nil
	})
	def("newline", func(_ *Interpreter, args []Value) (Value, error) {
		port := i.stdout
		if len(args) == 1 {
			port = args[0]
		}
		if err := WriteString(port, "\n"); err != nil {
			return 0, err
		}
		return i.kw.ok, nil
	})

	// ---- GC and host interop ----

	def("gc", func(interp *Interpreter, _ []Value) (Value, error) {
		interp.RunGC()
		return i.kw.ok, nil
	})
	def("exit", func(_ *Interpreter, args []Value) (Value, error) {
		code := 0
		if len(args) == 1 && args[0].IsInt32() {
			code = int(args[0].Int32())
		}
		os.Exit(code)
		return i.kw.ok, nil
	})
}

// applyProcedure invokes proc with already-evaluated args, used by the
// `apply` primitive — the one place a primitive needs to re-enter the
// evaluator rather than compute a value directly.
func (i *Interpreter) applyProcedure(proc Value, args []Value) (Value, error) {
	if IsPrimitiveProcedure(proc) {
		return primitiveOf(proc).fn(i, args)
	}
	if !IsCompoundProcedure(proc) {
		return 0, &CallError{Message: "apply target is not a procedure", Irritants: proc}
	}
	argl := i.heap.List(i.atoms.null, args...)
	env, err := i.extendEnvironment(ProcedureParameters(proc), argl, ProcedureEnvironment(proc), i.atoms.null)
	if err != nil {
		return 0, err
	}
	body := ProcedureBody(proc)
	var result Value = i.atoms.null
	for !IsNull(body) {
		result, err = i.Eval(Car(body), env)
		if err != nil {
			return 0, err
		}
		body = Cdr(body)
	}
	return result, nil
}

func requireNumber(v Value, who string) error {
	if v.IsInt32() || v.IsDouble() {
		return nil
	}
	return &TypeError{Message: fmt.Sprintf("%s requires numeric arguments", who), Irritants: v}
}

func numericBinop(name string, fn func(a, b Value) (Value, error)) PrimitiveFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 {
			return 0, &CallError{Message: name + " requires 2 arguments"}
		}
		if err := requireNumber(args[0], name); err != nil {
			return 0, err
		}
		if err := requireNumber(args[1], name); err != nil {
			return 0, err
		}
		return fn(args[0], args[1])
	}
}

func numericFold(name string, fn func(a, b Value) Value) PrimitiveFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) == 0 {
			return 0, &CallError{Message: name + " requires at least 1 argument"}
		}
		acc := args[0]
		if err := requireNumber(acc, name); err != nil {
			return 0, err
		}
		for _, a := range args[1:] {
			if err := requireNumber(a, name); err != nil {
				return 0, err
			}
			acc = fn(acc, a)
		}
		return acc, nil
	}
}

func numericChain(name string, rel func(a, b Value) bool) PrimitiveFunc {
	return func(interp *Interpreter, args []Value) (Value, error) {
		for _, a := range args {
			if err := requireNumber(a, name); err != nil {
				return 0, err
			}
		}
		ok := true
		for j := 0; j+1 < len(args); j++ {
			if !rel(args[j], args[j+1]) {
				ok = false
				break
			}
		}
		return boolOf(interp, ok), nil
	}
}

func numericPredicate(name string, fn func(Value) bool) PrimitiveFunc {
	return func(interp *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return 0, &CallError{Message: name + " requires 1 argument"}
		}
		if err := requireNumber(args[0], name); err != nil {
			return 0, err
		}
		return boolOf(interp, fn(args[0])), nil
	}
}

func typePredicate1(fn func(Value) bool) PrimitiveFunc {
	return func(interp *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return 0, &CallError{Message: "type predicate requires 1 argument"}
		}
		return boolOf(interp, fn(args[0])), nil
	}
}

func accessor1(name string, fn func(Value) (Value, error)) PrimitiveFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return 0, &CallError{Message: name + " requires 1 argument"}
		}
		return fn(args[0])
	}
}

func boolOf(i *Interpreter, b bool) Value {
	if b {
		return i.atoms.t
	}
	return i.atoms.f
}

// eqv mirrors eq? for pointer-identical values but also compares
// numbers and characters by value, per the usual Scheme distinction
// between eq? and eqv? (§4.2).
func eqv(a, b Value) bool {
	if Eq(a, b) {
		return true
	}
	if a.IsInt32() && b.IsInt32() {
		return a.Int32() == b.Int32()
	}
	if a.IsDouble() && b.IsDouble() {
		return a.Double() == b.Double()
	}
	if IsChar(a) && IsChar(b) {
		return CharValue(a) == CharValue(b)
	}
	return false
}

// equalValues is structural equality, recursing through pairs,
// strings, and vectors; everything else falls back to eqv? (§4.2).
func equalValues(a, b, null Value) bool {
	if eqv(a, b) {
		return true
	}
	switch {
	case IsPair(a) && IsPair(b):
		return equalValues(Car(a), Car(b), null) && equalValues(Cdr(a), Cdr(b), null)
	case IsString(a) && IsString(b):
		return StringValue(a) == StringValue(b)
	case IsVector(a) && IsVector(b):
		ea, eb := *VectorElements(a), *VectorElements(b)
		if len(ea) != len(eb) {
			return false
		}
		for j := range ea {
			if !equalValues(ea[j], eb[j], null) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// displayString renders v the way `display` does: strings and
// characters print their raw content rather than read syntax.
func displayString(v Value) string {
	if IsString(v) {
		return StringValue(v)
	}
	if IsChar(v) {
		return string(CharValue(v))
	}
	return Repr(v)
}
