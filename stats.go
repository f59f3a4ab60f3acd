package pinslab

import (
	"fmt"
	"strings"
)

// Stats returns statistics for the Slab. It walks every slot and the whole
// free list, so it is an O(Capacity) operation and should be used only for
// diagnostics or debugging purposes.
func (s *Slab[T]) Stats() *SlabStats {
	stats := &SlabStats{
		Chunks:       len(s.table.chunks),
		ChunkSize:    s.ChunkSize(),
		Capacity:     s.table.capacity(),
		Len:          s.len,
		TotalGrowths: s.totalGrowths,
	}
	for _, c := range s.table.chunks {
		live := 0
		for i := range c.slots {
			if c.slots[i].occupied() {
				live++
			}
		}
		if live != c.live {
			stats.LiveMismatches++
		}
		switch live {
		case 0:
			stats.EmptyChunks++
		case len(c.slots):
			stats.FullChunks++
		}
		stats.Occupied += live
	}
	stats.FreeListLen = s.walkFreeList(stats.Capacity)
	return stats
}

// walkFreeList follows the free list from its head and returns the number
// of nodes, or -1 if the list is longer than limit (a cycle) or reaches a
// slot that is out of bounds or occupied.
func (s *Slab[T]) walkFreeList(limit int) int {
	if len(s.table.chunks) == 0 {
		return 0
	}
	n := 0
	for key := s.free.head; key != freeListEnd; n++ {
		if n >= limit {
			return -1
		}
		_, sl, err := s.table.slot(key)
		if err != nil || sl.occupied() {
			return -1
		}
		key = sl.next
	}
	return n
}

// SlabStats is Slab statistics.
//
// Warning: slab statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type SlabStats struct {
	// Chunks is the number of allocated chunks.
	Chunks int
	// ChunkSize is the number of slots per chunk.
	ChunkSize int
	// Capacity is Chunks*ChunkSize.
	Capacity int
	// Len is the number of stored values according to the counter.
	Len int
	// Occupied is the number of occupied slots found by scanning every
	// chunk. It always equals Len.
	Occupied int
	// FreeListLen is the number of slots reachable from the free list
	// head, or -1 if the list is corrupt. It always equals Capacity-Len.
	FreeListLen int
	// EmptyChunks is the number of chunks holding no values.
	EmptyChunks int
	// FullChunks is the number of chunks with no vacant slot.
	FullChunks int
	// TotalGrowths is the number of chunks allocated over the Slab's
	// lifetime.
	TotalGrowths int
	// LiveMismatches is the number of chunks whose live counter differs
	// from the scanned number of occupied slots. It is always 0.
	LiveMismatches int
}

// ToString returns string representation of slab stats.
func (s *SlabStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("SlabStats{\n")
	sb.WriteString(fmt.Sprintf("Chunks:         %d\n", s.Chunks))
	sb.WriteString(fmt.Sprintf("ChunkSize:      %d\n", s.ChunkSize))
	sb.WriteString(fmt.Sprintf("Capacity:       %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Len:            %d\n", s.Len))
	sb.WriteString(fmt.Sprintf("Occupied:       %d\n", s.Occupied))
	sb.WriteString(fmt.Sprintf("FreeListLen:    %d\n", s.FreeListLen))
	sb.WriteString(fmt.Sprintf("EmptyChunks:    %d\n", s.EmptyChunks))
	sb.WriteString(fmt.Sprintf("FullChunks:     %d\n", s.FullChunks))
	sb.WriteString(fmt.Sprintf("TotalGrowths:   %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("LiveMismatches: %d\n", s.LiveMismatches))
	sb.WriteString("}\n")
	return sb.String()
}
