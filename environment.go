package noldor

type envPayload struct {
	bindings map[Value]Value // symbol -> value
	outer    Value           // another environment, or the null sentinel
}

var environmentMetatype = &Metatype{
	Name: "environment",
	Visit: func(v Value, fn func(Value)) {
		e := v.header().payload.(*envPayload)
		fn(e.outer)
		for k, val := range e.bindings {
			fn(k)
			fn(val)
		}
	},
	Repr: func(Value) string { return "#<environment>" },
}

// IsEnvironment reports whether v is an environment.
func IsEnvironment(v Value) bool {
	return v.IsPointer() && v.header().metatype == environmentMetatype
}

// MkEnvironment allocates a new environment extending outer (§3.5).
// outer is the null value for the global/empty case.
func (h *Heap) MkEnvironment(outer Value) Value {
	return h.allocate(environmentMetatype, &envPayload{
		bindings: make(map[Value]Value),
		outer:    outer,
	})
}

func envOf(v Value) *envPayload {
	if !IsEnvironment(v) {
		panic("noldor: environment operation on non-environment value")
	}
	return v.header().payload.(*envPayload)
}

// EnvironmentFind walks outward from env and returns the innermost
// frame binding sym, or the null value if none binds it (§4.4).
func EnvironmentFind(env, sym, null Value) Value {
	for !Eq(env, null) {
		e := envOf(env)
		if _, ok := e.bindings[sym]; ok {
			return env
		}
		env = e.outer
	}
	return null
}

// EnvironmentGet reads sym's binding, searching outward from env.
// Raises VariableError if unbound.
func EnvironmentGet(env, sym, null Value) (Value, error) {
	frame := EnvironmentFind(env, sym, null)
	if Eq(frame, null) {
		return null, &VariableError{Message: "unbound variable", Irritants: sym}
	}
	return envOf(frame).bindings[sym], nil
}

// EnvironmentSet overwrites sym's existing binding, searching outward
// from env. Raises VariableError if unbound — assignment requires a
// prior definition (§4.4).
func EnvironmentSet(env, sym, val, null Value) error {
	frame := EnvironmentFind(env, sym, null)
	if Eq(frame, null) {
		return &VariableError{Message: "cannot set! undefined variable", Irritants: sym}
	}
	envOf(frame).bindings[sym] = val
	return nil
}

// EnvironmentDefine creates or overwrites sym's binding in the
// innermost frame of env (§4.4).
func EnvironmentDefine(env, sym, val Value) {
	envOf(env).bindings[sym] = val
}
