package repositories

// Logger интерфейс для логирования.
// Все методы принимают формат в стиле fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Success(format string, args ...interface{})
	Close() error
}

// NopLogger логгер, отбрасывающий все сообщения
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{})   {}
func (NopLogger) Info(string, ...interface{})    {}
func (NopLogger) Warning(string, ...interface{}) {}
func (NopLogger) Error(string, ...interface{})   {}
func (NopLogger) Success(string, ...interface{}) {}
func (NopLogger) Close() error                   { return nil }
