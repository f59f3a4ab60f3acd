//go:build slab_opt_cachelinesize_64

package pinslab

// CacheLineSize is pinned to 64 bytes by the slab_opt_cachelinesize_64 tag.
const CacheLineSize = 64
