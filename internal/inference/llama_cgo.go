//go:build llama

package inference

// Link against libllama from ./bin with an $ORIGIN rpath so the binary finds
// the shared libraries next to itself at runtime.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
