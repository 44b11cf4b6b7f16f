package log

// NoopLogger drops every message. It is what the emitter uses when the host
// does not inject a Logger.
type NoopLogger struct{}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() NoopLogger {
	return NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
