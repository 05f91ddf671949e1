package noldor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListRoundTrip(t *testing.T) {
	h := NewHeap()
	null := h.allocate(nullMetatype, nil)

	l := h.List(null, FromInt32(1), FromInt32(2), FromInt32(3))
	got := ListToSlice(l, null)
	assert.Equal(t, []int32{1, 2, 3}, toInts(got))
}

func TestReverseAndAppend(t *testing.T) {
	h := NewHeap()
	null := h.allocate(nullMetatype, nil)

	l := h.List(null, FromInt32(1), FromInt32(2), FromInt32(3))
	rev := h.Reverse(l, null)
	assert.Equal(t, []int32{3, 2, 1}, toInts(ListToSlice(rev, null)))

	appended := h.Append(l, h.List(null, FromInt32(4)), null)
	assert.Equal(t, []int32{1, 2, 3, 4}, toInts(ListToSlice(appended, null)))
}

func TestCxxrFamily(t *testing.T) {
	h := NewHeap()
	null := h.allocate(nullMetatype, nil)

	l := h.List(null, FromInt32(1), FromInt32(2), FromInt32(3), FromInt32(4))
	assert.Equal(t, int32(1), Car(l).Int32())
	assert.Equal(t, int32(2), Cadr(l).Int32())
	assert.Equal(t, int32(3), Caddr(l).Int32())
	assert.Equal(t, int32(4), Cadddr(l).Int32())
}

func TestIsListDetectsCycle(t *testing.T) {
	h := NewHeap()
	null := h.allocate(nullMetatype, nil)

	p := h.Cons(FromInt32(1), null)
	SetCdr(p, p) // self-cycle
	assert.False(t, IsList(p, null))
}

func toInts(vs []Value) []int32 {
	out := make([]int32, len(vs))
	for i, v := range vs {
		out[i] = v.Int32()
	}
	return out
}
