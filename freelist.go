package pinslab

import "github.com/llxisdsh/pinslab/internal/assert"

// freeList is the LIFO list of vacant slots. Only the head lives here;
// the links live in the vacant slots themselves.
type freeList[T any] struct {
	head int // freeListEnd when empty
	n    int // reachable nodes
}

func (f *freeList[T]) reset() {
	f.head, f.n = freeListEnd, 0
}

// pop unlinks the head and returns it with its chunk and slot. The slot
// keeps its stale link; the caller retags it.
func (f *freeList[T]) pop(t *chunkTable[T]) (int, *chunk[T], *slot[T], bool) {
	key := f.head
	if key == freeListEnd {
		return freeListEnd, nil, nil, false
	}
	c, s, err := t.slot(key)
	assert.Assert(err == nil, "free list head %d out of bounds", key)
	assert.Assert(!s.occupied(), "free list head %d is occupied", key)
	f.head = s.next
	f.n--
	return key, c, s, true
}

// push makes the slot at key the new head.
func (f *freeList[T]) push(s *slot[T], key int) {
	s.next = f.head
	f.head = key
	f.n++
}

// seed makes base the head of a freshly grown chain of count slots that
// already ends in the old head.
func (f *freeList[T]) seed(base, count int) {
	f.head = base
	f.n += count
}
