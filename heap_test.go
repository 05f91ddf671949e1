package noldor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// scopeFunc adapts a plain function to the Scope interface for tests.
type scopeFunc func(func(Value))

func (f scopeFunc) VisitRoots(fn func(Value)) { f(fn) }

func TestHeapGCReclaimsUnreachablePairs(t *testing.T) {
	h := NewHeap()
	null := h.allocate(nullMetatype, nil)

	root := h.Cons(FromInt32(1), null)
	h.Cons(FromInt32(2), null) // unreachable

	deregister := h.Register(scopeFunc(func(fn func(Value)) { fn(root) }))
	defer deregister()

	stats := h.RunGC()
	assert.Equal(t, 1, stats.ObjectsFreed)
	assert.Equal(t, 2, stats.ObjectsLive) // root pair + null
}

func TestHeapGCKeepsReachableGraph(t *testing.T) {
	h := NewHeap()
	null := h.allocate(nullMetatype, nil)

	list := h.Cons(FromInt32(1), h.Cons(FromInt32(2), h.Cons(FromInt32(3), null)))
	deregister := h.Register(scopeFunc(func(fn func(Value)) { fn(list) }))
	defer deregister()

	stats := h.RunGC()
	assert.Equal(t, 0, stats.ObjectsFreed)
	assert.Equal(t, 4, stats.ObjectsLive) // 3 pairs + null
}

func TestHeapDeregisterStopsRooting(t *testing.T) {
	h := NewHeap()
	null := h.allocate(nullMetatype, nil)
	v := h.Cons(FromInt32(1), null)

	deregister := h.Register(scopeFunc(func(fn func(Value)) { fn(v) }))
	deregister()

	stats := h.RunGC()
	assert.Equal(t, 1, stats.ObjectsFreed) // the pair; null is static
}
