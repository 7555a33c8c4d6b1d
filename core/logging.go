package core

// Logger is any leveled logger service.
// Implementations accept extra args (errors, maps, profiles) after the message.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
