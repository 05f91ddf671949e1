package noldor

// Numeric tower support: int32 and double, promoted to double on
// overflow or mixed-type operations (§3.4, grounded in the original
// interpreter's numeric_op templates in util.cpp, which dispatch on
// the pair of operand tags and promote to the wider representation
// rather than raising on overflow).

func asDouble(v Value) float64 {
	if v.IsInt32() {
		return float64(v.Int32())
	}
	return v.Double()
}

func bothInt32(a, b Value) bool { return a.IsInt32() && b.IsInt32() }

// addOverflows reports whether a+b overflows int32.
func addOverflows(a, b int32) bool {
	sum := int64(a) + int64(b)
	return sum > int64(1<<31-1) || sum < -int64(1<<31)
}

func mulOverflows(a, b int32) bool {
	prod := int64(a) * int64(b)
	return prod > int64(1<<31-1) || prod < -int64(1<<31)
}

func numAdd(a, b Value) Value {
	if bothInt32(a, b) && !addOverflows(a.Int32(), b.Int32()) {
		return FromInt32(a.Int32() + b.Int32())
	}
	return FromDouble(asDouble(a) + asDouble(b))
}

func numSub(a, b Value) Value {
	// -b itself overflows when b is the minimum int32
	if bothInt32(a, b) && b.Int32() != -1<<31 && !addOverflows(a.Int32(), -b.Int32()) {
		return FromInt32(a.Int32() - b.Int32())
	}
	return FromDouble(asDouble(a) - asDouble(b))
}

func numMul(a, b Value) Value {
	if bothInt32(a, b) && !mulOverflows(a.Int32(), b.Int32()) {
		return FromInt32(a.Int32() * b.Int32())
	}
	return FromDouble(asDouble(a) * asDouble(b))
}

// numDiv always yields a double: the language has no distinct exact
// rational representation (§3.4 Non-goals).
func numDiv(a, b Value) (Value, error) {
	db := asDouble(b)
	if db == 0 {
		return 0, &RuntimeError{Message: "division by zero"}
	}
	return FromDouble(asDouble(a) / db), nil
}

func numEq(a, b Value) bool { return asDouble(a) == asDouble(b) }
func numLt(a, b Value) bool { return asDouble(a) < asDouble(b) }
func numGt(a, b Value) bool { return asDouble(a) > asDouble(b) }
func numLe(a, b Value) bool { return asDouble(a) <= asDouble(b) }
func numGe(a, b Value) bool { return asDouble(a) >= asDouble(b) }

func numIsZero(v Value) bool     { return asDouble(v) == 0 }
func numIsPositive(v Value) bool { return asDouble(v) > 0 }
func numIsNegative(v Value) bool { return asDouble(v) < 0 }

func numIsOdd(v Value) bool {
	if v.IsInt32() {
		return v.Int32()%2 != 0
	}
	return int64(v.Double())%2 != 0
}

func numIsEven(v Value) bool { return !numIsOdd(v) }

func numMax(a, b Value) Value {
	if numLt(a, b) {
		if b.IsInt32() {
			return b
		}
		return FromDouble(asDouble(b))
	}
	if a.IsInt32() {
		return a
	}
	return FromDouble(asDouble(a))
}

func numMin(a, b Value) Value {
	if numLt(a, b) {
		if a.IsInt32() {
			return a
		}
		return FromDouble(asDouble(a))
	}
	if b.IsInt32() {
		return b
	}
	return FromDouble(asDouble(b))
}

func numAbs(v Value) Value {
	if v.IsInt32() {
		n := v.Int32()
		if n == -1<<31 {
			return FromDouble(1 << 31) // -n would overflow int32
		}
		if n < 0 {
			n = -n
		}
		return FromInt32(n)
	}
	d := v.Double()
	if d < 0 {
		d = -d
	}
	return FromDouble(d)
}

// numQuotient/numRemainder/numModulo operate on the truncated int64
// view of their operands — integer division is only meaningful for
// exact numbers, but both int32 and "integer-valued" doubles are
// accepted (grounded in util.cpp's tolerant numeric coercions).
func numQuotient(a, b Value) (Value, error) {
	ib, ia := int64(asDouble(b)), int64(asDouble(a))
	if ib == 0 {
		return 0, &RuntimeError{Message: "division by zero"}
	}
	return FromInt32(int32(ia / ib)), nil
}

func numRemainder(a, b Value) (Value, error) {
	ib, ia := int64(asDouble(b)), int64(asDouble(a))
	if ib == 0 {
		return 0, &RuntimeError{Message: "division by zero"}
	}
	return FromInt32(int32(ia % ib)), nil
}

func numModulo(a, b Value) (Value, error) {
	ib, ia := int64(asDouble(b)), int64(asDouble(a))
	if ib == 0 {
		return 0, &RuntimeError{Message: "division by zero"}
	}
	r := ia % ib
	if r != 0 && (r < 0) != (ib < 0) {
		r += ib
	}
	return FromInt32(int32(r)), nil
}
