package book

// Level is a FIFO of orders resting at one price. It holds no order
// records itself — only head/tail indices into the book's Pool plus
// aggregate volume/count, which are maintained incrementally on every
// mutation (spec.md §4.E).
type Level struct {
	Price   uint32
	head    int32
	tail    int32
	Volume  int64
	Count   int
}

func newLevel(price uint32) *Level {
	return &Level{Price: price, head: nilIndex, tail: nilIndex}
}

// Empty reports whether the level has no resting orders.
func (l *Level) Empty() bool { return l.Count == 0 }

// Head returns the pool index of the oldest (next-to-fill) order, or
// nilIndex if the level is empty.
func (l *Level) Head() int32 { return l.head }

// PushBack appends ix to the FIFO, incrementing aggregates by the order's
// remaining volume.
func (l *Level) PushBack(p *Pool, ix int32) {
	s := &p.slots[ix]
	s.prev = l.tail
	s.next = nilIndex
	if l.tail != nilIndex {
		p.slots[l.tail].next = ix
	} else {
		l.head = ix
	}
	l.tail = ix
	l.Count++
	l.Volume += s.order.Remaining
}

// PopFront removes and returns the oldest order's index. Caller is
// responsible for freeing it back to the pool once terminal.
func (l *Level) PopFront(p *Pool) int32 {
	ix := l.head
	if ix == nilIndex {
		return nilIndex
	}
	l.removeIndex(p, ix)
	return ix
}

// Erase removes ix from the FIFO in O(1) via its intrusive links,
// decrementing aggregates by its current remaining volume.
func (l *Level) Erase(p *Pool, ix int32) {
	l.removeIndex(p, ix)
}

func (l *Level) removeIndex(p *Pool, ix int32) {
	s := &p.slots[ix]
	l.Volume -= s.order.Remaining
	l.Count--

	if s.prev != nilIndex {
		p.slots[s.prev].next = s.next
	} else {
		l.head = s.next
	}
	if s.next != nilIndex {
		p.slots[s.next].prev = s.prev
	} else {
		l.tail = s.prev
	}
	s.prev = nilIndex
	s.next = nilIndex
}

// DecrementVolume adjusts the level's aggregate volume by a partial fill on
// its head order, without altering list membership.
func (l *Level) DecrementVolume(fill int64) {
	l.Volume -= fill
}
