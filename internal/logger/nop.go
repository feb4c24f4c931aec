package logger

import "go.uber.org/zap"

// Nop returns a Logger that discards everything. Used in tests and as a
// safe default when a component is constructed without a logger.
func Nop() Logger {
	return &zapLogger{logger: zap.NewNop()}
}
