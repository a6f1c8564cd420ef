// Package notelist is an ordered, doubly-linked list whose elements live in
// an arena and are addressed by generation-checked handles.
//
// A handle to a removed element never resolves again, even after its slot is
// reused, so a stale cursor can be detected instead of followed.
package notelist

import (
	"iter"

	"go-drumcli/debug"
)

// Handle addresses one element. The zero Handle is nil.
type Handle struct {
	slot uint32 // 1-based index into the arena; 0 = nil
	gen  uint32
}

// Nil is the handle that addresses nothing.
var Nil Handle

// IsNil reports whether h addresses nothing.
func (h Handle) IsNil() bool { return h.slot == 0 }

type node[T any] struct {
	data       T
	prev, next Handle
	gen        uint32
	live       bool
}

// List owns its elements. It is not safe for concurrent use.
type List[T any] struct {
	nodes []node[T] // nodes[0] is unused so slot 0 can mean nil
	free  []uint32
	head  Handle
	tail  Handle
	n     int
}

// New returns an empty list.
func New[T any]() *List[T] {
	return &List[T]{nodes: make([]node[T], 1)}
}

func (l *List[T]) lookup(h Handle) *node[T] {
	if h.slot == 0 || int(h.slot) >= len(l.nodes) {
		return nil
	}
	n := &l.nodes[h.slot]
	if !n.live || n.gen != h.gen {
		return nil
	}
	return n
}

func (l *List[T]) alloc(data T) Handle {
	var slot uint32
	if k := len(l.free); k > 0 {
		slot = l.free[k-1]
		l.free = l.free[:k-1]
	} else {
		l.nodes = append(l.nodes, node[T]{})
		slot = uint32(len(l.nodes) - 1)
	}
	n := &l.nodes[slot]
	n.gen++
	n.live = true
	n.data = data
	n.prev, n.next = Nil, Nil
	l.n++
	return Handle{slot: slot, gen: n.gen}
}

// Valid reports whether h addresses a live element of this list.
func (l *List[T]) Valid(h Handle) bool { return l.lookup(h) != nil }

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.n }

// Head returns the first element, or Nil.
func (l *List[T]) Head() Handle { return l.head }

// Tail returns the last element, or Nil.
func (l *List[T]) Tail() Handle { return l.tail }

// Get returns the payload of h.
func (l *List[T]) Get(h Handle) (T, bool) {
	n := l.lookup(h)
	if n == nil {
		var zero T
		return zero, false
	}
	return n.data, true
}

// Next returns the successor of h, or Nil.
func (l *List[T]) Next(h Handle) Handle {
	if n := l.lookup(h); n != nil {
		return n.next
	}
	return Nil
}

// Prev returns the predecessor of h, or Nil.
func (l *List[T]) Prev(h Handle) Handle {
	if n := l.lookup(h); n != nil {
		return n.prev
	}
	return Nil
}

// First walks back from x to the first reachable element.
func (l *List[T]) First(x Handle) Handle {
	if l.lookup(x) == nil {
		return Nil
	}
	for {
		p := l.Prev(x)
		if p.IsNil() {
			return x
		}
		x = p
	}
}

// Last walks forward from x to the last reachable element.
func (l *List[T]) Last(x Handle) Handle {
	if l.lookup(x) == nil {
		return Nil
	}
	for {
		n := l.Next(x)
		if n.IsNil() {
			return x
		}
		x = n
	}
}

// InsertAfter splices data in right after anchor and returns its handle.
// A nil anchor inserts at the head. A stale anchor inserts nothing and
// returns Nil.
func (l *List[T]) InsertAfter(data T, anchor Handle) Handle {
	if anchor.IsNil() {
		return l.pushFront(data)
	}
	a := l.lookup(anchor)
	if a == nil {
		debug.Log("notelist", "InsertAfter: stale anchor %v", anchor)
		return Nil
	}
	succ := a.next
	h := l.alloc(data)
	// alloc may have grown the arena; re-resolve
	a = &l.nodes[anchor.slot]
	n := &l.nodes[h.slot]
	n.prev, n.next = anchor, succ
	a.next = h
	if s := l.lookup(succ); s != nil {
		s.prev = h
	} else {
		l.tail = h
	}
	return h
}

// InsertBefore splices data in right before anchor and returns its handle.
// A nil anchor inserts at the tail. A stale anchor inserts nothing and
// returns Nil.
func (l *List[T]) InsertBefore(data T, anchor Handle) Handle {
	if anchor.IsNil() {
		return l.pushBack(data)
	}
	a := l.lookup(anchor)
	if a == nil {
		debug.Log("notelist", "InsertBefore: stale anchor %v", anchor)
		return Nil
	}
	if !a.prev.IsNil() {
		return l.InsertAfter(data, a.prev)
	}
	return l.pushFront(data)
}

func (l *List[T]) pushFront(data T) Handle {
	h := l.alloc(data)
	n := &l.nodes[h.slot]
	n.next = l.head
	if old := l.lookup(l.head); old != nil {
		old.prev = h
	} else {
		l.tail = h
	}
	l.head = h
	return h
}

func (l *List[T]) pushBack(data T) Handle {
	if l.tail.IsNil() {
		return l.pushFront(data)
	}
	return l.InsertAfter(data, l.tail)
}

// Remove unlinks h and drops its payload. Every cursor that equals h is
// moved to h's successor first. It returns the new head, which is Nil once
// the list is empty. Removing a stale handle changes nothing.
func (l *List[T]) Remove(h Handle, cursors ...*Handle) Handle {
	n := l.lookup(h)
	if n == nil {
		return l.head
	}
	prev, next := n.prev, n.next
	for _, c := range cursors {
		if c != nil && *c == h {
			*c = next
		}
	}
	if p := l.lookup(prev); p != nil {
		p.next = next
	} else {
		l.head = next
	}
	if s := l.lookup(next); s != nil {
		s.prev = prev
	} else {
		l.tail = prev
	}

	var zero T
	n.data = zero
	n.prev, n.next = Nil, Nil
	n.live = false
	l.free = append(l.free, h.slot)
	l.n--
	return l.head
}

// Clear removes every element. Outstanding handles become stale.
func (l *List[T]) Clear() {
	for h := l.head; !h.IsNil(); {
		next := l.Next(h)
		l.Remove(h)
		h = next
	}
}

// All yields handles and payloads from head to tail.
func (l *List[T]) All() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for h := l.head; !h.IsNil(); h = l.Next(h) {
			n := l.lookup(h)
			if !yield(h, n.data) {
				return
			}
		}
	}
}
