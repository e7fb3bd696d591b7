package core

// Logger interface for render and estimator progress output
type Logger interface {
	Printf(format string, args ...interface{})
}

// SilentLogger discards all output. Useful in tests.
type SilentLogger struct{}

// Printf implements Logger by dropping the message
func (sl SilentLogger) Printf(format string, args ...interface{}) {}
