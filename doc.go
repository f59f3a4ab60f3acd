// Package pinslab provides Slab, a slab allocator whose stored values never
// move in memory.
//
// # Overview
//
// A Slab stores values in slots and hands out an int key per value. Unlike a
// slab built on one growable slice, growing a Slab never relocates values:
// capacity is added one fixed-size chunk at a time and existing chunks are
// never touched. A *T taken from Get, GetMut or Range therefore stays valid
// until its key is removed, which makes the Slab suitable for long-lived
// pointers and self-referential values.
//
//	s := pinslab.New[node](pinslab.WithChunkSize(256))
//	key := s.Insert(node{name: "root"})
//	root, _ := s.GetMut(key)
//	for i := 0; i < 10000; i++ {
//	    s.Insert(node{parent: root}) // root never moves
//	}
//
// # Keys and the free list
//
// Keys are global slot indexes. key/ChunkSize selects the chunk and
// key%ChunkSize the slot in it. Removed slots are pushed on a LIFO free
// list threaded through the vacant slots, so Insert reuses the most
// recently removed key first and only allocates a chunk when the list is
// empty. Insert, Remove and Get are O(1); a chunk allocation is
// O(ChunkSize) and happens at most once per ChunkSize inserts.
//
// Keys are not generational: after Remove(k), a later Insert may return k
// again and the old key then addresses the new value.
//
// # Memory
//
// Chunks are never freed or compacted while the Slab lives. Removed values
// are zeroed so that anything they referenced can be collected.
//
// # Errors
//
// Lookups and removals fail with ErrOutOfBounds (the key lies beyond the
// allocated chunks) or ErrVacant (the slot holds no value, e.g. a double
// remove). Both match ErrInvalidKey with errors.Is. Growth refused by
// WithMaxChunks fails with ErrCapacityExceeded and leaves the Slab unchanged.
//
// # Thread Safety
//
// Slab instances are not thread-safe. Callers must synchronize access
// externally, e.g. with a sync.RWMutex: exclusive for Insert, Remove,
// Retain, Clear, Reserve and writes through GetMut, shared for the rest.
package pinslab
