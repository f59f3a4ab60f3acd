package pinslab

import (
	"math"
	"math/bits"

	"github.com/llxisdsh/pinslab/internal/assert"
)

const (
	// freeListEnd terminates the free list.
	freeListEnd = -1
	// slotOccupied tags a slot holding a live value.
	slotOccupied = -2
)

// slot is a single storage cell.
//
// next is both the tag and the free-list link: slotOccupied marks a live
// value, anything else marks a vacant slot and holds the global index of
// the next vacant slot (or freeListEnd). value is the zero T whenever the
// slot is vacant.
type slot[T any] struct {
	next  int
	value T
}

//go:nosplit
func (s *slot[T]) occupied() bool {
	return s.next == slotOccupied
}

// chunk is a fixed-size block of slots. slots is allocated once at its
// final length and never appended to, so its backing array never moves.
type chunk[T any] struct {
	slots []slot[T]
	live  int // occupied slots; Range and Retain skip chunks with live == 0
}

// chunkTable is the append-only list of chunks.
//
// Chunks are held by pointer: appending may move the chunks slice itself,
// but never the slot storage a caller holds pointers into.
type chunkTable[T any] struct {
	chunks    []*chunk[T]
	size      int  // slots per chunk, >= 1
	shift     uint // log2(size) when pow2
	mask      int  // size-1 when pow2
	pow2      bool
	maxChunks int // 0 means unbounded
}

func (t *chunkTable[T]) init(size, maxChunks int) {
	assert.Assert(size >= 1, "chunk size %d", size)
	t.size = size
	t.maxChunks = maxChunks
	t.pow2 = size&(size-1) == 0
	if t.pow2 {
		t.shift = uint(bits.TrailingZeros(uint(size)))
		t.mask = size - 1
	}
}

//go:nosplit
func (t *chunkTable[T]) capacity() int {
	return len(t.chunks) * t.size
}

// growLimit returns how many more chunks may be appended under maxChunks
// while keeping the capacity representable as an int.
func (t *chunkTable[T]) growLimit() int {
	k := (math.MaxInt - t.capacity()) / t.size
	if t.maxChunks > 0 {
		k = min(k, t.maxChunks-len(t.chunks))
	}
	return max(k, 0)
}

// canGrow reports whether k more chunks fit.
func (t *chunkTable[T]) canGrow(k int) bool {
	return k <= 0 || k <= t.growLimit()
}

// clone returns a copy of the table with freshly allocated chunks. Slots,
// links and live counts are copied as they are; values are copied by
// assignment.
func (t *chunkTable[T]) clone() chunkTable[T] {
	c := *t
	c.chunks = make([]*chunk[T], len(t.chunks))
	for i, src := range t.chunks {
		dst := &chunk[T]{slots: make([]slot[T], len(src.slots)), live: src.live}
		copy(dst.slots, src.slots)
		c.chunks[i] = dst
	}
	return c
}

// grow appends one chunk whose slots are all vacant and chained in
// ascending order, the last one linking to next. It returns the global
// index of the chunk's first slot.
//
// The chunk is fully built before it is published, so a failed
// allocation leaves the table as it was.
func (t *chunkTable[T]) grow(next int) (int, error) {
	if !t.canGrow(1) {
		return freeListEnd, ErrCapacityExceeded
	}
	base := t.capacity()
	c := &chunk[T]{slots: make([]slot[T], t.size)}
	last := len(c.slots) - 1
	for i := 0; i < last; i++ {
		c.slots[i].next = base + i + 1
	}
	c.slots[last].next = next
	t.chunks = append(t.chunks, c)
	return base, nil
}

// resolve maps a global index to its chunk and offset.
func (t *chunkTable[T]) resolve(key int) (ci, off int, ok bool) {
	if key < 0 || len(t.chunks) == 0 {
		return 0, 0, false
	}
	if t.pow2 {
		ci, off = key>>t.shift, key&t.mask
	} else {
		ci, off = key/t.size, key%t.size
	}
	return ci, off, ci < len(t.chunks)
}

// slot returns the cell behind key together with its chunk.
func (t *chunkTable[T]) slot(key int) (*chunk[T], *slot[T], error) {
	ci, off, ok := t.resolve(key)
	if !ok {
		return nil, nil, ErrOutOfBounds
	}
	c := t.chunks[ci]
	return c, &c.slots[off], nil
}
