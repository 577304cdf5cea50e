package logger

// Logger interface defines the logging contract. Fields are alternating
// key/value pairs; Field values may also be passed directly.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	SetLevel(level string)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	With(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// Output formats understood by NewZapLogger.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)
