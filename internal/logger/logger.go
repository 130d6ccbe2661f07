// Package logger provides leveled, file-rotated logging for the
// application. Log files are rotated by size and aged out.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents the logging level.
type Level int

const (
	// DEBUG level for detailed debugging information
	DEBUG Level = iota
	// INFO level for informational messages
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string onto a Level. Unknown values map to INFO.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return DEBUG
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config holds logger configuration.
type Config struct {
	LogDir     string
	Level      Level
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Console    bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return Config{
		LogDir:     filepath.Join(dir, "voxbook", "logs"),
		Level:      INFO,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
	}
}

// Logger wraps a zap sugared logger behind printf-style methods.
type Logger struct {
	sugar *zap.SugaredLogger
	atom  zap.AtomicLevel
	sink  *lumberjack.Logger
}

// New creates a new logger writing to LogDir/voxbook.log with rotation.
func New(config Config) (*Logger, error) {
	if err := os.MkdirAll(config.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sink := &lumberjack.Logger{
		Filename:   filepath.Join(config.LogDir, "voxbook.log"),
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)

	atom := zap.NewAtomicLevelAt(config.Level.zap())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(sink), atom),
	}
	if config.Console {
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), atom))
	}

	z := zap.New(zapcore.NewTee(cores...))
	return &Logger{sugar: z.Sugar(), atom: atom, sink: sink}, nil
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.atom.SetLevel(level.zap())
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	l.sugar.Sync()
	if l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

// Nop returns a logger that discards everything; used in tests.
func Nop() *Logger {
	return &Logger{
		sugar: zap.NewNop().Sugar(),
		atom:  zap.NewAtomicLevel(),
	}
}
