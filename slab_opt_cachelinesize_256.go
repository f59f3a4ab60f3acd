//go:build slab_opt_cachelinesize_256

package pinslab

// CacheLineSize is pinned to 256 bytes by the slab_opt_cachelinesize_256 tag.
const CacheLineSize = 256
