//go:build slab_opt_cachelinesize_32

package pinslab

// CacheLineSize is pinned to 32 bytes by the slab_opt_cachelinesize_32 tag.
const CacheLineSize = 32
