// Package monitoring holds the swappable diagnostic logger shared by the
// pose pipeline and tools.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// Prefixed returns a logger that writes through the current Logf with
// prefix prepended, e.g. "[session 1f3c] ". Logf is resolved per call so
// SetLogger still applies to loggers created earlier.
func Prefixed(prefix string) func(format string, v ...any) {
	return func(format string, v ...any) {
		Logf(prefix+format, v...)
	}
}
