// Package monitoring carries the pipeline's diagnostic logging hook.
// Components log through Logf with a bracketed prefix naming the component,
// e.g. "[analysis] run abc123 complete".
package monitoring

import "log"

// Logf is the process-wide diagnostic logger. The default writes through
// log.Printf; callers replace it via SetLogger to redirect or mute output.
var Logf func(format string, v ...any) = log.Printf

// SetLogger swaps the diagnostic logger. A nil argument installs a no-op
// logger, which is how tests silence the pipeline.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// Mute silences the logger and returns a function restoring the previous
// one. Intended for tests: defer monitoring.Mute()().
func Mute() func() {
	prev := Logf
	SetLogger(nil)
	return func() { Logf = prev }
}
