// Package logging decouples the rest of bankstmt from the concrete logging library.
// Components receive a Logger through their constructors; production code wires
// the logrus adapter and tests wire MockLogger.
package logging

// Logger is the structured logging contract used across the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a derived logger carrying err.
	WithError(err error) Logger

	// WithField returns a derived logger carrying a single field.
	WithField(key string, value interface{}) Logger

	// WithFields returns a derived logger carrying all fields.
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the program.
	Fatal(msg string, fields ...Field)

	// Fatalf logs a formatted message and exits the program.
	Fatalf(msg string, args ...interface{})
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Nop returns a Logger that discards everything. It is used when a component
// is constructed without a logger.
func Nop() Logger {
	return NewLogrusAdapterWithOutput("panic", "text", discard{})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
