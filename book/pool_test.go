package book

import "testing"

func TestPoolAllocateFreeReuse(t *testing.T) {
	p := NewPool(2)
	a, ok := p.Allocate()
	if !ok {
		t.Fatalf("expected allocate to succeed")
	}
	b, ok := p.Allocate()
	if !ok {
		t.Fatalf("expected second allocate to succeed")
	}
	if _, ok := p.Allocate(); ok {
		t.Fatalf("expected pool exhaustion")
	}
	p.Free(a)
	c, ok := p.Allocate()
	if !ok {
		t.Fatalf("expected allocate after free to succeed")
	}
	if c != a {
		t.Fatalf("expected freed slot %d to be reused, got %d", a, c)
	}
	_ = b
}

func TestPoolInUse(t *testing.T) {
	p := NewPool(4)
	if p.InUse() != 0 {
		t.Fatalf("expected 0 in use, got %d", p.InUse())
	}
	ix, _ := p.Allocate()
	if p.InUse() != 1 {
		t.Fatalf("expected 1 in use, got %d", p.InUse())
	}
	p.Free(ix)
	if p.InUse() != 0 {
		t.Fatalf("expected 0 in use after free, got %d", p.InUse())
	}
}
