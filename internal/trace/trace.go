// Package trace is a no-op-by-default debug sink for internal pipeline
// chatter (partitioner walk order, polyfill registry transitions) that
// isn't worth a diagnostic.Diagnostic but is worth seeing with --debug.
package trace

import (
	"fmt"
	"os"
)

// Enabled gates Log. False by default; cmd/modgraft flips it on --debug.
var Enabled = false

// Log is a package-level function variable so callers can stub it out
// in tests without touching Enabled, and so cmd/modgraft can redirect
// it (e.g. to a file) without this package knowing about io.Writer
// plumbing.
var Log = func(format string, args ...any) {
	if !Enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
}
