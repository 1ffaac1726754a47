package lisp

// consCell is one slot of the cons arena.
type consCell struct {
	car Expr
	cdr Expr
}

// Cons appends a new cell (head . tail) to the cons arena.
//
//	(cons head tail)
func (h *Heap) Cons(head, tail Expr) Expr {
	i := len(h.conses)
	h.conses = append(h.conses, consCell{head, tail})
	return Make(TypeCons, uint64(i))
}

func (h *Heap) cell(e Expr) *consCell {
	return &h.conses[h.index(e, TypeCons, len(h.conses))]
}

// Car returns the head of the cons e.
func (h *Heap) Car(e Expr) Expr {
	return h.cell(e).car
}

// Cdr returns the tail of the cons e.
func (h *Heap) Cdr(e Expr) Expr {
	return h.cell(e).cdr
}

// Rplaca stores v in the head of the cons e.
func (h *Heap) Rplaca(e, v Expr) {
	h.cell(e).car = v
}

// Rplacd stores v in the tail of the cons e.
func (h *Heap) Rplacd(e, v Expr) {
	h.cell(e).cdr = v
}

func (h *Heap) Caar(e Expr) Expr   { return h.Car(h.Car(e)) }
func (h *Heap) Cadr(e Expr) Expr   { return h.Car(h.Cdr(e)) }
func (h *Heap) Cdar(e Expr) Expr   { return h.Cdr(h.Car(e)) }
func (h *Heap) Cddr(e Expr) Expr   { return h.Cdr(h.Cdr(e)) }
func (h *Heap) Caddr(e Expr) Expr  { return h.Car(h.Cddr(e)) }
func (h *Heap) Cdddr(e Expr) Expr  { return h.Cdr(h.Cddr(e)) }
func (h *Heap) Cadddr(e Expr) Expr { return h.Car(h.Cdddr(e)) }

// List returns a proper list of the given elements.
func (h *Heap) List(v ...Expr) Expr {
	lis := Nil
	for i := len(v) - 1; i >= 0; i-- {
		lis = h.Cons(v[i], lis)
	}
	return lis
}

// Slice collects the elements of the list e.  Slice fails if e is not a
// proper list.
func (h *Heap) Slice(e Expr) []Expr {
	var s []Expr
	it := h.NewListIterator(e)
	for it.Next() {
		s = append(s, it.Value())
	}
	if !it.Rest().IsNil() {
		h.Fail(TypeMismatch, "not a proper list")
	}
	return s
}

// Len returns the number of cells in the list e and whether e is a proper
// list.  Len stops at the first revisited cell and reports false.
func (h *Heap) Len(e Expr) (int, bool) {
	cycle := make(map[Expr]bool)
	n := 0
	for e.Is(TypeCons) {
		if cycle[e] {
			return n, false
		}
		cycle[e] = true
		n++
		e = h.Cdr(e)
	}
	return n, e.IsNil()
}

// Nreverse destructively reverses the list e and returns the new head.  A
// dotted tail stays in the final cdr position.
func (h *Heap) Nreverse(e Expr) Expr {
	if e.IsNil() {
		return e
	}
	prev := Nil
	for e.Is(TypeCons) {
		next := h.Cdr(e)
		h.Rplacd(e, prev)
		prev, e = e, next
	}
	if e.IsNil() {
		return prev
	}
	// Shift the elements one cell toward the tail so the dotted value can
	// occupy the first car and then move it into the last cdr.
	iter := prev
	for !h.Cdr(iter).IsNil() {
		next := h.Car(iter)
		h.Rplaca(iter, e)
		e = next
		iter = h.Cdr(iter)
	}
	next := h.Car(iter)
	h.Rplaca(iter, e)
	h.Rplacd(iter, next)
	return prev
}

// Append returns a fresh copy of list a whose last cdr is b.  b is shared.
func (h *Heap) Append(a, b Expr) Expr {
	lb := h.NewListBuilder()
	it := h.NewListIterator(a)
	for it.Next() {
		lb.Append(it.Value())
	}
	return lb.ListTail(b)
}

// Equal returns true if a and b are structurally equal.  Conses are compared
// element-wise, strings by content and everything else by identity.
func (h *Heap) Equal(a, b Expr) bool {
	for a.Is(TypeCons) && b.Is(TypeCons) {
		if !h.Equal(h.Car(a), h.Car(b)) {
			return false
		}
		a, b = h.Cdr(a), h.Cdr(b)
	}
	if a.Is(TypeString) && b.Is(TypeString) {
		return h.StringEqual(a, b)
	}
	return a == b
}

// IsNamedCall returns true if e is a list whose head is the symbol name.
func (h *Heap) IsNamedCall(e, name Expr) bool {
	return e.Is(TypeCons) && h.Car(e) == name
}

// ListBuilder constructs a list front to back.
type ListBuilder struct {
	h     *Heap
	front Expr
	back  Expr
}

func (h *Heap) NewListBuilder() *ListBuilder {
	return &ListBuilder{h: h}
}

// List returns a cons list with the elements appended so far.  If Append is
// called after List the value returned by List will be modified.
func (b *ListBuilder) List() Expr {
	return b.front
}

// ListTail terminates the list with tail instead of Nil and returns it.
func (b *ListBuilder) ListTail(tail Expr) Expr {
	if b.front.IsNil() {
		return tail
	}
	b.h.Rplacd(b.back, tail)
	return b.front
}

// Append adds elements to the end of the cons list.
func (b *ListBuilder) Append(v ...Expr) {
	for i := range v {
		cell := b.h.Cons(v[i], Nil)
		if b.front.IsNil() {
			b.front = cell
		} else {
			b.h.Rplacd(b.back, cell)
		}
		b.back = cell
	}
}

// ListIterator iterates through cons lists
type ListIterator struct {
	h    *Heap
	v    Expr
	rest Expr
}

// NewListIterator returns a ListIterator that will iterate through list e.
func (h *Heap) NewListIterator(e Expr) *ListIterator {
	return &ListIterator{h: h, rest: e}
}

// Value returns the iteration's current value.  Value will return Nil if Next
// has not been called.
func (it *ListIterator) Value() Expr {
	return it.v
}

// Rest returns any items remaining to be iterated over.  After Next returns
// false Rest is Nil for a proper list and the dotted tail otherwise.
func (it *ListIterator) Rest() Expr {
	return it.rest
}

// Next advances the iterator to the next list element.  Next returns false if
// the list has no more elements or a non-list tail was reached.
func (it *ListIterator) Next() bool {
	if !it.rest.Is(TypeCons) {
		return false
	}
	cell := it.h.cell(it.rest)
	it.v = cell.car
	it.rest = cell.cdr
	return true
}
