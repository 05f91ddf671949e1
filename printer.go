package noldor

import (
	"math"
	"strconv"
)

// Repr produces v's external textual representation (§6 "Printer"):
// where practical, re-reading the result yields an equal? value.
func Repr(v Value) string {
	switch {
	case v.IsDouble():
		d := v.Double()
		if d == math.Trunc(d) && math.Abs(d) < 1e21 {
			// integral values print in full, without an exponent
			return strconv.FormatFloat(d, 'f', -1, 64)
		}
		return strconv.FormatFloat(d, 'g', -1, 64)
	case v.IsInt32():
		return strconv.FormatInt(int64(v.Int32()), 10)
	case v.IsPointer():
		h := v.header()
		if h.metatype.Repr != nil {
			return h.metatype.Repr(v)
		}
		return "#<" + h.metatype.Name + ">"
	default:
		return "#<unknown>"
	}
}
