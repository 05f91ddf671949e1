package noldor

// PrimitiveFunc is a host callable wrapped as a primitive procedure
// (§4.7). It must tolerate any argument list, validating and raising
// a *TypeError/*CallError itself, and must not assume any evaluator
// register contents.
type PrimitiveFunc func(interp *Interpreter, args []Value) (Value, error)

type primitivePayload struct {
	name string
	fn   PrimitiveFunc
}

var primitiveMetatype = &Metatype{
	Name: "primitive-procedure",
	Repr: func(v Value) string {
		return "#<primitive-procedure " + v.header().payload.(*primitivePayload).name + ">"
	},
}

// IsPrimitiveProcedure reports whether v is a primitive procedure.
func IsPrimitiveProcedure(v Value) bool {
	return v.IsPointer() && v.header().metatype == primitiveMetatype
}

// MkPrimitiveProcedure wraps a host callable as a primitive procedure.
func (h *Heap) MkPrimitiveProcedure(name string, fn PrimitiveFunc) Value {
	return h.allocate(primitiveMetatype, &primitivePayload{name: name, fn: fn})
}

func primitiveOf(v Value) *primitivePayload {
	return v.header().payload.(*primitivePayload)
}

type compoundPayload struct {
	parameters Value // proper list, symbol, or dotted list
	body       Value // list of body forms
	env        Value // captured environment
}

var compoundMetatype = &Metatype{
	Name: "compound-procedure",
	Visit: func(v Value, fn func(Value)) {
		p := v.header().payload.(*compoundPayload)
		fn(p.parameters)
		fn(p.body)
		fn(p.env)
	},
	Repr: func(Value) string { return "#<compound-procedure>" },
}

// IsCompoundProcedure reports whether v is a closure built by lambda.
func IsCompoundProcedure(v Value) bool {
	return v.IsPointer() && v.header().metatype == compoundMetatype
}

// IsProcedure reports whether v is callable, primitive or compound.
func IsProcedure(v Value) bool {
	return IsPrimitiveProcedure(v) || IsCompoundProcedure(v)
}

// MkCompoundProcedure builds a closure over params/body/env (§3.4).
func (h *Heap) MkCompoundProcedure(params, body, env Value) Value {
	return h.allocate(compoundMetatype, &compoundPayload{parameters: params, body: body, env: env})
}

func compoundOf(v Value) *compoundPayload { return v.header().payload.(*compoundPayload) }

// ProcedureParameters returns a compound procedure's parameter spec.
func ProcedureParameters(v Value) Value { return compoundOf(v).parameters }

// ProcedureBody returns a compound procedure's body form list.
func ProcedureBody(v Value) Value { return compoundOf(v).body }

// ProcedureEnvironment returns a compound procedure's captured environment.
func ProcedureEnvironment(v Value) Value { return compoundOf(v).env }
