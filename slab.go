package pinslab

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/llxisdsh/pinslab/internal/assert"
)

// DefaultChunkSize is the number of slots per chunk when WithChunkSize is
// not given.
const DefaultChunkSize = 1024

// Slab is a slab allocator (also known as an object pool) whose values never
// move. A pointer obtained from Get, GetMut or Range stays valid, and keeps
// pointing at the same value, until that value is removed, no matter how
// many values are inserted or removed in between.
//
// Storage is a list of fixed-size chunks. Each chunk is allocated once and
// never resized, so growth appends a chunk instead of reallocating. Keys are
// global slot indexes: key/chunkSize selects the chunk, key%chunkSize the
// slot inside it. Vacant slots form a LIFO free list threaded through the
// slots themselves, so the most recently removed key is the next one
// handed out.
//
// Keys carry no generation. A key used after its value was removed may
// address a value inserted later into the same slot.
//
// Slab is not safe for concurrent use. Mutating methods (Insert, TryInsert,
// Remove, Retain, Clear, Reserve, and writes through GetMut) require
// exclusive access; read-only methods may run concurrently with each other.
// Wrap the Slab in a mutex if it is shared between goroutines.
//
// The zero Slab is empty and ready to use with DefaultChunkSize.
// A Slab must not be copied after first use.
type Slab[T any] struct {
	_ noCopy

	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		chunks       []unsafe.Pointer
		size         int
		shift        uint
		mask         int
		pow2         bool
		maxChunks    int
		head, n      int
		len          int
		totalGrowths int
	}{})%CacheLineSize) % CacheLineSize]byte

	table        chunkTable[T]
	free         freeList[T]
	len          int
	totalGrowths int
}

// SlabConfig defines configurable Slab options.
type SlabConfig struct {
	chunkSize int
	sizeHint  int
	maxChunks int
}

// WithChunkSize sets the number of slots per chunk. Capacity always grows
// by exactly this many slots. It panics if n < 1.
func WithChunkSize(n int) func(*SlabConfig) {
	if n < 1 {
		panic(fmt.Sprintf("pinslab: chunk size must be >= 1, got %d", n))
	}
	return func(c *SlabConfig) {
		c.chunkSize = n
	}
}

// WithPresize reserves capacity for sizeHint values when the Slab is
// created. If sizeHint is zero or negative, the value is ignored. The
// reservation is clamped to the WithMaxChunks limit and to the largest
// capacity an int key can address.
func WithPresize(sizeHint int) func(*SlabConfig) {
	return func(c *SlabConfig) {
		c.sizeHint = sizeHint
	}
}

// WithMaxChunks caps the number of chunks the Slab may allocate. Once the
// cap is reached, TryInsert and Reserve return ErrCapacityExceeded and
// Insert panics. Zero or negative means no cap.
func WithMaxChunks(n int) func(*SlabConfig) {
	return func(c *SlabConfig) {
		c.maxChunks = max(n, 0)
	}
}

// New creates an empty Slab. No memory for slots is allocated until the
// first insert, unless WithPresize is given.
func New[T any](options ...func(*SlabConfig)) *Slab[T] {
	s := &Slab[T]{}
	s.Init(options...)
	return s
}

// Init resets the Slab and applies options. Values and chunks held before
// the call are dropped.
func (s *Slab[T]) Init(options ...func(*SlabConfig)) {
	cfg := SlabConfig{chunkSize: DefaultChunkSize}
	for _, opt := range options {
		opt(&cfg)
	}

	*s = Slab[T]{}
	s.table.init(cfg.chunkSize, cfg.maxChunks)
	s.free.reset()

	if cfg.sizeHint > 0 {
		need := min(chunksFor(cfg.sizeHint, cfg.chunkSize), s.table.growLimit())
		err := s.growN(need)
		assert.Assert(err == nil, "presize %d chunks: %v", need, err)
	}
}

func (s *Slab[T]) lazyInit() {
	if s.table.size == 0 {
		s.Init()
	}
}

// chunksFor returns how many chunks of size slots hold n slots.
func chunksFor(n, size int) int {
	k := n / size
	if n%size != 0 {
		k++
	}
	return k
}

// growN appends k chunks, chained in ascending key order in front of the
// current free list. Either all k chunks are added or none.
func (s *Slab[T]) growN(k int) error {
	if k <= 0 {
		return nil
	}
	if !s.table.canGrow(k) {
		return ErrCapacityExceeded
	}
	first := s.table.capacity()
	for i := 0; i < k; i++ {
		next := s.free.head
		if i < k-1 {
			next = s.table.capacity() + s.table.size
		}
		_, err := s.table.grow(next)
		assert.Assert(err == nil, "grow %d/%d: %v", i+1, k, err)
	}
	s.free.seed(first, k*s.table.size)
	s.totalGrowths += k
	return nil
}

// Insert stores value and returns its key. If no slot is vacant, one chunk
// is allocated first.
//
// Insert panics with ErrCapacityExceeded if the Slab may not grow; use
// TryInsert to get the error instead.
func (s *Slab[T]) Insert(value T) int {
	key, err := s.TryInsert(value)
	if err != nil {
		panic(err)
	}
	return key
}

// TryInsert is like Insert but reports ErrCapacityExceeded instead of
// panicking. On failure the Slab is unchanged and the returned key is -1.
func (s *Slab[T]) TryInsert(value T) (int, error) {
	s.lazyInit()
	key, c, sl, ok := s.free.pop(&s.table)
	if !ok {
		if err := s.growN(1); err != nil {
			return freeListEnd, err
		}
		key, c, sl, ok = s.free.pop(&s.table)
		assert.Assert(ok, "free list empty after grow")
	}
	sl.next = slotOccupied
	sl.value = value
	c.live++
	s.len++
	return key, nil
}

// Remove removes the value stored under key and returns it. The key is
// released and will be the next one handed out by Insert.
//
// The error matches ErrOutOfBounds or ErrVacant, and ErrInvalidKey; the
// Slab is unchanged in that case.
func (s *Slab[T]) Remove(key int) (T, error) {
	c, sl, err := s.occupied(key)
	if err != nil {
		var zero T
		return zero, errors.WithMessagef(err, "remove %d", key)
	}
	value := sl.value
	s.vacate(c, sl, key)
	return value, nil
}

func (s *Slab[T]) vacate(c *chunk[T], sl *slot[T], key int) {
	var zero T
	sl.value = zero
	s.free.push(sl, key)
	c.live--
	s.len--
}

func (s *Slab[T]) occupied(key int) (*chunk[T], *slot[T], error) {
	c, sl, err := s.table.slot(key)
	if err != nil {
		return nil, nil, err
	}
	if !sl.occupied() {
		return nil, nil, ErrVacant
	}
	return c, sl, nil
}

// Get returns a pointer to the value stored under key. The pointer is
// stable until key is removed. Callers holding only shared access must not
// write through it; see GetMut.
//
// The error is ErrOutOfBounds or ErrVacant.
func (s *Slab[T]) Get(key int) (*T, error) {
	_, sl, err := s.occupied(key)
	if err != nil {
		return nil, err
	}
	return &sl.value, nil
}

// GetMut is Get for callers holding exclusive access to the Slab; the value
// may be modified in place through the returned pointer.
func (s *Slab[T]) GetMut(key int) (*T, error) {
	return s.Get(key)
}

// Contains reports whether a value is stored under key.
func (s *Slab[T]) Contains(key int) bool {
	_, _, err := s.occupied(key)
	return err == nil
}

// Len returns the number of stored values.
func (s *Slab[T]) Len() int {
	return s.len
}

// IsEmpty reports whether no values are stored.
func (s *Slab[T]) IsEmpty() bool {
	return s.len == 0
}

// Capacity returns the number of values the Slab can hold without
// allocating. It is always a multiple of ChunkSize and never decreases
// (except through Init).
func (s *Slab[T]) Capacity() int {
	return s.table.capacity()
}

// ChunkSize returns the number of slots per chunk.
func (s *Slab[T]) ChunkSize() int {
	if s.table.size == 0 {
		return DefaultChunkSize
	}
	return s.table.size
}

// Reserve makes room for at least additional more values without further
// allocation. It returns ErrCapacityExceeded, allocating nothing, if the
// chunks needed would exceed WithMaxChunks.
func (s *Slab[T]) Reserve(additional int) error {
	s.lazyInit()
	spare := s.table.capacity() - s.len
	if additional <= spare {
		return nil
	}
	k := chunksFor(additional-spare, s.table.size)
	if err := s.growN(k); err != nil {
		return errors.WithMessagef(err, "reserve %d", additional)
	}
	return nil
}

// Retain removes every value for which keep returns false. Keys of the
// retained values do not change.
func (s *Slab[T]) Retain(keep func(key int, value *T) bool) {
	for ci, c := range s.table.chunks {
		if c.live == 0 {
			continue
		}
		base := ci * s.table.size
		for off := range c.slots {
			sl := &c.slots[off]
			if sl.occupied() && !keep(base+off, &sl.value) {
				s.vacate(c, sl, base+off)
			}
		}
	}
}

// Clear removes all values but keeps every chunk. Keys are handed out again
// from 0 in ascending order.
func (s *Slab[T]) Clear() {
	n := s.table.capacity()
	for ci, c := range s.table.chunks {
		base := ci * s.table.size
		for off := range c.slots {
			c.slots[off] = slot[T]{next: base + off + 1}
		}
		c.live = 0
	}
	s.free.reset()
	if n > 0 {
		_, last, _ := s.table.slot(n - 1)
		last.next = freeListEnd
		s.free.seed(0, n)
	}
	s.len = 0
}

// Clone returns a copy of the Slab with its own chunks. Every key maps to
// an equal value in the copy, and both slabs hand out the same keys for
// subsequent inserts. Values are copied by assignment, so pointers stored
// inside T are shared. Pointers into the original are not valid for the
// copy.
func (s *Slab[T]) Clone() *Slab[T] {
	c := &Slab[T]{}
	if s.table.size == 0 {
		c.Init()
		return c
	}
	c.table = s.table.clone()
	c.free = s.free
	c.len = s.len
	c.totalGrowths = s.totalGrowths
	return c
}

// Range calls yield for every stored value in ascending key order, until
// yield returns false. Vacant slots are skipped.
//
// Notes:
//   - value points into the Slab and is stable like a pointer from Get.
//   - The Slab must not be modified during the iteration except by
//     writing through value.
func (s *Slab[T]) Range(yield func(key int, value *T) bool) {
	size := s.table.size
	for ci := 0; ci < len(s.table.chunks); ci++ {
		c := s.table.chunks[ci]
		if c.live == 0 {
			continue
		}
		base := ci * size
		for off := range c.slots {
			if sl := &c.slots[off]; sl.occupied() {
				if !yield(base+off, &sl.value) {
					return
				}
			}
		}
	}
}

// All is the iterator version of Range.
func (s *Slab[T]) All() func(yield func(int, *T) bool) {
	return s.Range
}

// Keys is the iterator version for iterating over all keys.
func (s *Slab[T]) Keys() func(yield func(int) bool) {
	return func(yield func(int) bool) {
		s.Range(func(key int, _ *T) bool {
			return yield(key)
		})
	}
}

// Values is the iterator version for iterating over all values.
func (s *Slab[T]) Values() func(yield func(*T) bool) {
	return func(yield func(*T) bool) {
		s.Range(func(_ int, value *T) bool {
			return yield(value)
		})
	}
}

// String implement the formatting output interface fmt.Stringer
func (s *Slab[T]) String() string {
	const limit = 1024
	var sb strings.Builder
	sb.WriteString("Slab[")
	n := 0
	s.Range(func(key int, value *T) bool {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:%v", key, *value)
		n++
		return n < limit
	})
	sb.WriteByte(']')
	return sb.String()
}

// noCopy may be added to structs which must not be copied
// after the first use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
