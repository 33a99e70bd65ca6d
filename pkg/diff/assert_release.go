//go:build !diffdebug

package diff

// assertf is a no-op outside diffdebug builds.
func assertf(cond bool, format string, args ...any) {}
