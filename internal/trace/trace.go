// Package trace provides the shared debug logger for gibase packages.
// It is a no-op unless a logger is installed or GIBASE_DEBUG is set.
package trace

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger  atomic.Pointer[zap.Logger]
	enabled atomic.Bool
)

func init() {
	if os.Getenv("GIBASE_DEBUG") != "" {
		enabled.Store(true)
		if l, err := zap.NewDevelopment(); err == nil {
			logger.Store(l)
		}
	}
}

// SetLogger installs l as the trace logger and enables tracing.
// Passing nil disables tracing.
func SetLogger(l *zap.Logger) {
	if l == nil {
		enabled.Store(false)
		logger.Store(zap.NewNop())
		return
	}
	logger.Store(l)
	enabled.Store(true)
}

// Enabled reports whether trace events should be emitted.
// Checked before building zap fields so the disabled path stays cheap.
func Enabled() bool {
	return enabled.Load()
}

// L returns the current logger, never nil.
func L() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}
