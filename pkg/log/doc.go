// Package log provides the logging abstraction used by the emitter.
//
// The emitter never writes to stdout or stderr on its own. Hosts inject a
// Logger; when none is given a no-op logger is used.
//
// Use the zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or implement Logger to bridge to an existing logging stack:
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
