package pinslab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeList_PopEmpty(t *testing.T) {
	tbl := newTable(t, 4, 0)
	var f freeList[string]
	f.reset()

	key, c, s, ok := f.pop(tbl)
	assert.False(t, ok)
	assert.Equal(t, freeListEnd, key)
	assert.Nil(t, c)
	assert.Nil(t, s)
}

func TestFreeList_SeedThenPopAscending(t *testing.T) {
	tbl := newTable(t, 4, 0)
	var f freeList[string]
	f.reset()

	base, err := tbl.grow(f.head)
	require.NoError(t, err)
	f.seed(base, tbl.size)
	require.Equal(t, 4, f.n)

	for want := 0; want < 4; want++ {
		key, _, s, ok := f.pop(tbl)
		require.True(t, ok)
		require.Equal(t, want, key)
		assert.Same(t, &tbl.chunks[0].slots[want], s)
		s.next = slotOccupied
	}
	_, _, _, ok := f.pop(tbl)
	assert.False(t, ok)
	assert.Equal(t, 0, f.n)
}

func TestFreeList_PushIsLIFO(t *testing.T) {
	tbl := newTable(t, 8, 0)
	var f freeList[string]
	f.reset()
	base, err := tbl.grow(f.head)
	require.NoError(t, err)
	f.seed(base, tbl.size)
	for i := 0; i < 8; i++ {
		_, _, s, ok := f.pop(tbl)
		require.True(t, ok)
		s.next = slotOccupied
	}

	for _, key := range []int{5, 1, 6} {
		_, s, err := tbl.slot(key)
		require.NoError(t, err)
		f.push(s, key)
	}
	require.Equal(t, 3, f.n)

	for _, want := range []int{6, 1, 5} {
		key, _, s, ok := f.pop(tbl)
		require.True(t, ok)
		assert.Equal(t, want, key)
		s.next = slotOccupied
	}
	_, _, _, ok := f.pop(tbl)
	assert.False(t, ok)
}

func TestFreeList_SeedChainsInFrontOfOldHead(t *testing.T) {
	tbl := newTable(t, 2, 0)
	var f freeList[string]
	f.reset()
	base, err := tbl.grow(f.head)
	require.NoError(t, err)
	f.seed(base, tbl.size)

	// Occupy key 0, leaving key 1 on the list.
	_, _, s, ok := f.pop(tbl)
	require.True(t, ok)
	s.next = slotOccupied

	base, err = tbl.grow(f.head)
	require.NoError(t, err)
	f.seed(base, tbl.size)
	require.Equal(t, 3, f.n)

	var got []int
	for {
		key, _, s, ok := f.pop(tbl)
		if !ok {
			break
		}
		s.next = slotOccupied
		got = append(got, key)
	}
	assert.Equal(t, []int{2, 3, 1}, got)
}
