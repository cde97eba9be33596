package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger реализация логгера в файл с ротацией по размеру
type FileLogger struct {
	sugar  *zap.SugaredLogger
	closer io.Closer
}

// NewFileLogger создает новый файловый логгер.
// Если logToFile выключен, возвращается логгер, отбрасывающий сообщения.
func NewFileLogger(filename, logLevel string, maxSizeMB int, logToFile bool) (*FileLogger, error) {
	if !logToFile || filename == "" {
		return &FileLogger{sugar: zap.NewNop().Sugar()}, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		LocalTime:  true,
	}

	logger := NewWriterLogger(rotator, logLevel)
	logger.closer = rotator
	return logger, nil
}

// NewWriterLogger создает логгер, пишущий в произвольный io.Writer
func NewWriterLogger(w io.Writer, logLevel string) *FileLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		parseLevel(logLevel),
	)

	return &FileLogger{sugar: zap.New(core).Sugar()}
}

// WithConsole возвращает логгер, дублирующий сообщения в w
func (l *FileLogger) WithConsole(w io.Writer, logLevel string) *FileLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		parseLevel(logLevel),
	)

	core := zapcore.NewTee(l.sugar.Desugar().Core(), console)
	return &FileLogger{sugar: zap.New(core).Sugar(), closer: l.closer}
}

// Debug логирует отладочное сообщение
func (l *FileLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info логирует информационное сообщение
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warning логирует предупреждение
func (l *FileLogger) Warning(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error логирует ошибку
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Success логирует успешное выполнение
func (l *FileLogger) Success(format string, args ...interface{}) {
	l.sugar.With("status", "success").Infof(format, args...)
}

// Close сбрасывает буферы и закрывает файл
func (l *FileLogger) Close() error {
	_ = l.sugar.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// parseLevel переводит уровень из конфигурации в уровень zap
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warning", "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
