//go:build release

package assert

// Assert is a no-op under the release build tag.
func Assert(cond bool, format string, args ...any) {}
