package noldor

import "strings"

type pairPayload struct {
	car, cdr Value
}

var pairMetatype = &Metatype{
	Name: "pair",
	Visit: func(v Value, fn func(Value)) {
		p := v.header().payload.(*pairPayload)
		fn(p.car)
		fn(p.cdr)
	},
}

// Repr is attached in init: naming reprPair in the literal above would
// form an initialization cycle through IsPair back to pairMetatype.
func init() { pairMetatype.Repr = reprPair }

// IsPair reports whether v is a mutable cons cell.
func IsPair(v Value) bool { return v.IsPointer() && v.header().metatype == pairMetatype }

// Cons allocates a new pair.
func (h *Heap) Cons(car, cdr Value) Value {
	return h.allocate(pairMetatype, &pairPayload{car: car, cdr: cdr})
}

func pairOf(v Value) *pairPayload {
	if !IsPair(v) {
		panic("noldor: pair operation on non-pair value")
	}
	return v.header().payload.(*pairPayload)
}

// Car returns the first element of a pair.
func Car(v Value) Value { return pairOf(v).car }

// Cdr returns the second element of a pair.
func Cdr(v Value) Value { return pairOf(v).cdr }

// SetCar mutates the first element of a pair in place.
func SetCar(v, val Value) { pairOf(v).car = val }

// SetCdr mutates the second element of a pair in place.
func SetCdr(v, val Value) { pairOf(v).cdr = val }

// IsList reports whether v is a proper, finite (possibly empty) list.
// Cycle-safe via the classic tortoise-and-hare walk, grounded in the
// source's encountered-nodes tracking (§9 "Cyclic heap graphs").
func IsList(v Value, null Value) bool {
	slow, fast := v, v
	for {
		if Eq(fast, null) {
			return true
		}
		if !IsPair(fast) {
			return false
		}
		fast = Cdr(fast)
		if Eq(fast, null) {
			return true
		}
		if !IsPair(fast) {
			return false
		}
		fast = Cdr(fast)
		slow = Cdr(slow)
		if Eq(fast, slow) {
			return false // cycle
		}
	}
}

// ListLength returns the length of a proper list.
func ListLength(v Value, null Value) int32 {
	n := int32(0)
	for !Eq(v, null) {
		n++
		v = Cdr(v)
	}
	return n
}

// List builds a proper list from elems, terminated by null.
func (h *Heap) List(null Value, elems ...Value) Value {
	result := null
	for i := len(elems) - 1; i >= 0; i-- {
		result = h.Cons(elems[i], result)
	}
	return result
}

// ListToSlice collects the elements of a proper list into a slice.
func ListToSlice(v Value, null Value) []Value {
	var out []Value
	for !Eq(v, null) {
		out = append(out, Car(v))
		v = Cdr(v)
	}
	return out
}

// Append concatenates two lists, copying the spine of x.
func (h *Heap) Append(x, y Value, null Value) Value {
	elems := ListToSlice(x, null)
	result := y
	for i := len(elems) - 1; i >= 0; i-- {
		result = h.Cons(elems[i], result)
	}
	return result
}

// Reverse returns a freshly-consed reversal of a proper list.
func (h *Heap) Reverse(v Value, null Value) Value {
	result := null
	for !Eq(v, null) {
		result = h.Cons(Car(v), result)
		v = Cdr(v)
	}
	return result
}

// ListTail returns the sublist obtained by dropping k elements.
func ListTail(v Value, k int32) Value {
	for ; k > 0; k-- {
		v = Cdr(v)
	}
	return v
}

// cxxr implements the full car/cdr combination family (caar .. cddddr),
// grounded in the source's util.cpp macro expansion.
func cxxr(v Value, path string) Value {
	// path is read right-to-left, e.g. "ad" for cadr means (car (cdr v))
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case 'a':
			v = Car(v)
		case 'd':
			v = Cdr(v)
		}
	}
	return v
}

func Caar(v Value) Value   { return cxxr(v, "aa") }
func Cadr(v Value) Value   { return cxxr(v, "ad") }
func Cdar(v Value) Value   { return cxxr(v, "da") }
func Cddr(v Value) Value   { return cxxr(v, "dd") }
func Caaar(v Value) Value  { return cxxr(v, "aaa") }
func Caadr(v Value) Value  { return cxxr(v, "aad") }
func Cadar(v Value) Value  { return cxxr(v, "ada") }
func Caddr(v Value) Value  { return cxxr(v, "add") }
func Cdaar(v Value) Value  { return cxxr(v, "daa") }
func Cdadr(v Value) Value  { return cxxr(v, "dad") }
func Cddar(v Value) Value  { return cxxr(v, "dda") }
func Cdddr(v Value) Value  { return cxxr(v, "ddd") }
func Caaaar(v Value) Value { return cxxr(v, "aaaa") }
func Caaadr(v Value) Value { return cxxr(v, "aaad") }
func Caadar(v Value) Value { return cxxr(v, "aada") }
func Caaddr(v Value) Value { return cxxr(v, "aadd") }
func Cadaar(v Value) Value { return cxxr(v, "adaa") }
func Cadadr(v Value) Value { return cxxr(v, "adad") }
func Caddar(v Value) Value { return cxxr(v, "adda") }
func Cadddr(v Value) Value { return cxxr(v, "addd") }
func Cdaaar(v Value) Value { return cxxr(v, "daaa") }
func Cdaadr(v Value) Value { return cxxr(v, "daad") }
func Cdadar(v Value) Value { return cxxr(v, "dada") }
func Cdaddr(v Value) Value { return cxxr(v, "dadd") }
func Cddaar(v Value) Value { return cxxr(v, "ddaa") }
func Cddadr(v Value) Value { return cxxr(v, "ddad") }
func Cdddar(v Value) Value { return cxxr(v, "ddda") }
func Cddddr(v Value) Value { return cxxr(v, "dddd") }

func reprPair(v Value) string {
	var b strings.Builder
	b.WriteString("(")
	first := true
	for {
		p := pairOf(v)
		if !first {
			b.WriteString(" ")
		}
		first = false
		b.WriteString(Repr(p.car))
		if IsPair(p.cdr) {
			v = p.cdr
			continue
		}
		if IsNull(p.cdr) {
			break
		}
		b.WriteString(" . ")
		b.WriteString(Repr(p.cdr))
		break
	}
	b.WriteString(")")
	return b.String()
}
