// Package obs provides the module's logging conventions: plain stdlib
// log.Printf gated by verbose/trace flags, matching the teacher
// repository's practice (the zap dependency present in the wider
// ecosystem go.mod graph is never directly used there either).
package obs

import "log"

// Verbose prints a leveled progress line when enabled, grounded on
// original_source/utils.py's vlog.
func Verbose(enabled bool, idx int, format string, args ...interface{}) {
	if !enabled {
		return
	}
	log.Printf("[%d] "+format, append([]interface{}{idx}, args...)...)
}

// Trace prints a more detailed line when enabled, grounded on
// original_source/utils.py's tlog.
func Trace(enabled bool, idx int, format string, args ...interface{}) {
	if !enabled {
		return
	}
	log.Printf("[%d]   "+format, append([]interface{}{idx}, args...)...)
}
