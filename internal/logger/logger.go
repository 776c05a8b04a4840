package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable development output when debug
// is set, JSON production output otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Nop is used by tests and callers that do not care about logs.
func Nop() *zap.Logger {
	return zap.NewNop()
}
