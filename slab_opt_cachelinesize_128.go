//go:build slab_opt_cachelinesize_128

package pinslab

// CacheLineSize is pinned to 128 bytes by the slab_opt_cachelinesize_128 tag.
const CacheLineSize = 128
