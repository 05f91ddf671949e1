package noldor

import (
	"strconv"
	"strings"
)

// ---- null ----

var nullMetatype = &Metatype{
	Name:   "null",
	Static: true,
	Repr:   func(Value) string { return "()" },
}

// ---- boolean ----

var boolMetatype = &Metatype{
	Name:           "boolean",
	Static:         true,
	SelfEvaluating: true,
	Repr: func(v Value) string {
		if v.header().payload.(bool) {
			return "#t"
		}
		return "#f"
	},
}

// ---- eof ----

var eofMetatype = &Metatype{
	Name:   "eof",
	Static: true,
	Repr:   func(Value) string { return "#<eof-object>" },
}

// ---- character ----

var charMetatype = &Metatype{
	Name:           "character",
	Static:         false,
	SelfEvaluating: true,
	Repr: func(v Value) string {
		return "#\\" + charRepr(v.header().payload.(rune))
	},
}

var namedChars = map[rune]string{
	'\a': "alarm", '\b': "backspace", 127: "delete", 27: "escape",
	'\n': "newline", 0: "null", '\r': "return", ' ': "space", '\t': "tab",
}

func charRepr(r rune) string {
	if name, ok := namedChars[r]; ok {
		return name
	}
	return string(r)
}

// ---- string ----

var stringMetatype = &Metatype{
	Name:           "string",
	SelfEvaluating: true,
	Repr: func(v Value) string {
		return strconv.Quote(string(*v.header().payload.(*[]rune)))
	},
}

// ---- vector ----

var vectorMetatype = &Metatype{
	Name:           "vector",
	SelfEvaluating: true,
	Visit: func(v Value, fn func(Value)) {
		for _, e := range *v.header().payload.(*[]Value) {
			fn(e)
		}
	},
	Repr: func(v Value) string {
		elems := *v.header().payload.(*[]Value)
		var b strings.Builder
		b.WriteString("#(")
		for i, e := range elems {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(Repr(e))
		}
		b.WriteString(")")
		return b.String()
	},
}

// singletons, constructed once per Interpreter (mirrors "the source
// encodes each metatype as a static record" §9, generalized to one
// instance per heap rather than one per process).
type atoms struct {
	null, t, f, eof Value
}

func newAtoms(h *Heap) *atoms {
	a := &atoms{}
	a.null = h.allocate(nullMetatype, nil)
	a.t = h.allocate(boolMetatype, true)
	a.f = h.allocate(boolMetatype, false)
	a.eof = h.allocate(eofMetatype, nil)
	for _, v := range []Value{a.null, a.t, a.f, a.eof} {
		v.header().mark = markLive
	}
	return a
}

// IsNull reports whether v is the empty list.
func IsNull(v Value) bool { return v.IsPointer() && v.header().metatype == nullMetatype }

// IsBoolean reports whether v is #t or #f.
func IsBoolean(v Value) bool { return v.IsPointer() && v.header().metatype == boolMetatype }

// IsFalse reports whether v is the #f singleton — the only false
// value in this language (§3.4, §4.6.4 "only #f is false").
func IsFalse(v Value) bool {
	return IsBoolean(v) && !v.header().payload.(bool)
}

// IsTruthy is the negation of IsFalse.
func IsTruthy(v Value) bool { return !IsFalse(v) }

// IsEOF reports whether v is the eof-object singleton.
func IsEOF(v Value) bool { return v.IsPointer() && v.header().metatype == eofMetatype }

// IsChar reports whether v is a character.
func IsChar(v Value) bool { return v.IsPointer() && v.header().metatype == charMetatype }

// CharValue returns the code point a character value encodes.
func CharValue(v Value) rune { return v.header().payload.(rune) }

// IsString reports whether v is a string.
func IsString(v Value) bool { return v.IsPointer() && v.header().metatype == stringMetatype }

// StringValue returns the Go string a string value encodes.
func StringValue(v Value) string { return string(*v.header().payload.(*[]rune)) }

// IsVector reports whether v is a vector.
func IsVector(v Value) bool { return v.IsPointer() && v.header().metatype == vectorMetatype }

// VectorElements returns the backing slice of a vector value; callers
// mutating it must hold no other aliasing assumption beyond this
// interpreter's single-threaded evaluator (§5).
func VectorElements(v Value) *[]Value { return v.header().payload.(*[]Value) }

// MkChar allocates a character value.
func (h *Heap) MkChar(r rune) Value { return h.allocate(charMetatype, r) }

// MkString allocates a string value from s.
func (h *Heap) MkString(s string) Value {
	runes := []rune(s)
	return h.allocate(stringMetatype, &runes)
}

// MkVector allocates a vector value from elems (copied).
func (h *Heap) MkVector(elems []Value) Value {
	cp := append([]Value(nil), elems...)
	return h.allocate(vectorMetatype, &cp)
}
