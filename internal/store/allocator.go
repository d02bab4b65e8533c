package store

// Kind selects which identifier sequence an allocation draws from.
type Kind int

const (
	KindEquipment Kind = iota
	KindRequest
	kindCount
)

// Allocator issues monotonically increasing IDs per entity kind. IDs start
// at 1. After a load, or after a database insert returns its own ID, the
// counter must be advanced so newly issued IDs never collide with persisted
// ones.
type Allocator struct {
	next [kindCount]int
}

// NewAllocator returns an allocator with all sequences starting at 1.
func NewAllocator() *Allocator {
	a := &Allocator{}
	for k := range a.next {
		a.next[k] = 1
	}
	return a
}

// NextID returns the next ID for kind and advances the sequence.
func (a *Allocator) NextID(kind Kind) int {
	id := a.next[kind]
	a.next[kind]++
	return id
}

// Peek returns the ID the next NextID call would issue, without advancing.
func (a *Allocator) Peek(kind Kind) int {
	return a.next[kind]
}

// Advance raises the sequence so the next issued ID is strictly greater
// than id. Lower or equal values are ignored; the sequence never moves
// backwards.
func (a *Allocator) Advance(kind Kind, id int) {
	if id >= a.next[kind] {
		a.next[kind] = id + 1
	}
}

// Resume sets the sequence to resume from next, unless the sequence is
// already past it. Used when a snapshot carries an explicit counter.
func (a *Allocator) Resume(kind Kind, next int) {
	if next > a.next[kind] {
		a.next[kind] = next
	}
}
