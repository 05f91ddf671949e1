package noldor

// Heap owns the intrusive allocation list and the root scope registry
// for one Interpreter (§3.6, §4.1). Unlike the source implementation's
// process-wide globals, a Heap is a value an Interpreter owns, so
// multiple interpreters can coexist in one process without sharing
// mutable state (§9 "Global state", §5 "Shared resources").
type Heap struct {
	head objHeader // sentinel; head.next/head.prev form the list ring
	n    int

	scopes []Scope

	allocated int
	freed     int
}

// NewHeap returns an empty heap with its allocation list initialized
// to an empty ring.
func NewHeap() *Heap {
	h := &Heap{}
	h.head.next = &h.head
	h.head.prev = &h.head
	return h
}

// Scope is anything that, on request, enumerates a finite set of
// value locations (§3.6). Scopes are the only roots the GC walks.
type Scope interface {
	// VisitRoots calls fn once for every value location this scope
	// holds live. Locations holding non-pointer values are harmless to
	// pass along; the GC ignores them.
	VisitRoots(fn func(Value))
}

// Register adds s to the root scope registry. The caller must call
// the returned function (typically via defer) to deregister it on
// every exit path — Go has no destructors, so this is the idiomatic
// substitute for "deregisters on destruction" (§3.6).
func (h *Heap) Register(s Scope) (deregister func()) {
	// each registration gets its own comparable entry, so deregistering
	// finds it even after other scopes have been swapped around it
	type entry struct{ Scope }
	e := &entry{s}
	h.scopes = append(h.scopes, e)
	return func() {
		for idx, cur := range h.scopes {
			if cur == Scope(e) {
				// swap with last and shrink; scope order is irrelevant (§3.6)
				last := len(h.scopes) - 1
				h.scopes[idx] = h.scopes[last]
				h.scopes = h.scopes[:last]
				return
			}
		}
		// not found: already removed
	}
}

func (h *Heap) listInsert(n *objHeader) {
	n.next = h.head.next
	n.prev = &h.head
	h.head.next.prev = n
	h.head.next = n
	h.n++
}

func (h *Heap) listRemove(n *objHeader) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next = nil
	n.prev = nil
	h.n--
}

// allocate reserves a header for one object of the given metatype,
// links it into the allocation list, and returns its pointer-tagged
// Value. The payload is supplied by the caller and stored as given.
func (h *Heap) allocate(mt *Metatype, payload any) Value {
	hdr := &objHeader{metatype: mt, payload: payload, mark: markDead}
	h.listInsert(hdr)
	h.allocated++
	return hdr.value()
}

// GCStats reports the outcome of one run_gc pass.
type GCStats struct {
	ObjectsFreed int
	ObjectsLive  int
}

// RunGC performs one stop-the-world mark-sweep pass (§4.1):
//
//  1. mark clear — every allocation's mark reset to dead;
//  2. root walk — every registered scope's reachable graph marked live;
//  3. sweep — every still-dead, non-static allocation is destructed
//     and unlinked.
func (h *Heap) RunGC() GCStats {
	for n := h.head.next; n != &h.head; n = n.next {
		n.mark = markDead
	}

	var visit func(v Value)
	visit = func(v Value) {
		if !v.IsPointer() {
			return
		}
		hdr := v.header()
		if hdr.mark == markLive {
			return
		}
		hdr.mark = markLive
		if hdr.metatype.Visit != nil {
			hdr.metatype.Visit(v, visit)
		}
	}

	for _, s := range h.scopes {
		s.VisitRoots(visit)
	}

	freed := 0
	n := h.head.next
	for n != &h.head {
		next := n.next
		if n.mark == markDead && !n.metatype.Static {
			if n.metatype.Destruct != nil {
				n.metatype.Destruct(n.value())
			}
			h.listRemove(n)
			freed++
		}
		n = next
	}
	h.freed += freed

	live := 0
	for n := h.head.next; n != &h.head; n = n.next {
		live++
	}

	return GCStats{ObjectsFreed: freed, ObjectsLive: live}
}
