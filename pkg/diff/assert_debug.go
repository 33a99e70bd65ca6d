//go:build diffdebug

package diff

import "fmt"

// assertf panics if cond is false. It only exists in builds tagged
// diffdebug; the ambient error-handling policy (SPEC_FULL.md) keeps these
// invariant checks out of production binaries by default.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
