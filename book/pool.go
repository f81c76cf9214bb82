package book

// slot is one pool-owned order record plus the intrusive doubly-linked
// list pointers used by the owning Level's FIFO. Levels hold only
// indices into a book's pool, never raw pointers, per the "arena plus
// generational indices" guidance in spec.md §9 for implementations that
// want to avoid ad-hoc pointer lifetimes.
type slot struct {
	order Order
	prev  int32
	next  int32
	used  bool
}

const nilIndex int32 = -1

// Pool is fixed-size, block-reusable storage for order records. It is
// accessed only from the matching thread and needs no synchronization
// (spec.md §4.D, §9).
type Pool struct {
	slots []slot
	free  []int32
}

// NewPool preallocates capacity order slots.
func NewPool(capacity int) *Pool {
	p := &Pool{
		slots: make([]slot, capacity),
		free:  make([]int32, capacity),
	}
	for i := 0; i < capacity; i++ {
		p.free[i] = int32(capacity - 1 - i)
	}
	return p
}

// Allocate reserves a slot for a new order, O(1) amortised. ok is false on
// exhaustion; per spec.md §7 this is a fatal misconfiguration for the
// caller to handle (book.PlaceOrder panics rather than silently dropping).
func (p *Pool) Allocate() (int32, bool) {
	n := len(p.free)
	if n == 0 {
		return nilIndex, false
	}
	ix := p.free[n-1]
	p.free = p.free[:n-1]
	p.slots[ix] = slot{prev: nilIndex, next: nilIndex, used: true}
	return ix, true
}

// Free returns a slot to the pool, O(1).
func (p *Pool) Free(ix int32) {
	p.slots[ix] = slot{prev: nilIndex, next: nilIndex, used: false}
	p.free = append(p.free, ix)
}

// Order returns a pointer to the order record at ix.
func (p *Pool) Order(ix int32) *Order {
	return &p.slots[ix].order
}

// Cap reports the pool's total slot count.
func (p *Pool) Cap() int { return len(p.slots) }

// InUse reports the number of currently allocated slots.
func (p *Pool) InUse() int { return len(p.slots) - len(p.free) }
