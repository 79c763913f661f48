//go:build !ios && !android && (amd64 || arm64)

package gibase

import (
	"go.uber.org/zap"

	"github.com/dashea/gibase/internal/trace"
)

// SetLogger installs a zap logger that receives ownership trace events
// (acquire, release, ref_sink, disown). Pass nil to disable tracing.
//
// Tracing is also enabled at startup when the GIBASE_DEBUG environment
// variable is set, with a development logger.
func SetLogger(l *zap.Logger) {
	trace.SetLogger(l)
}

// TraceEnabled reports whether ownership trace events are being emitted.
func TraceEnabled() bool {
	return trace.Enabled()
}
