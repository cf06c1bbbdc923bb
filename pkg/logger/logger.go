package logger

import (
	"context"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string

	// Format defines the log format (json, console)
	Format string

	// OutputPath is "stdout" or a file path
	OutputPath string

	// FileMaxSizeMB is the maximum size of the log file in megabytes before rotation
	FileMaxSizeMB int

	// FileMaxBackups is the maximum number of old log files to retain
	FileMaxBackups int

	// FileMaxAgeDays is the maximum number of days to retain old log files
	FileMaxAgeDays int

	// Development enables development mode (console colors, stacktraces on warn)
	Development bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:          "info",
		Format:         "json",
		OutputPath:     "stdout",
		FileMaxSizeMB:  100,
		FileMaxBackups: 3,
		FileMaxAgeDays: 28,
	}
}

// Logger wraps zap.Logger with additional functionality
type Logger struct {
	*zap.Logger
	config *Config
	writer *fileWriter
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// New creates a new Logger instance based on the provided configuration
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := createEncoderConfig(cfg.Development)

	var encoder zapcore.Encoder
	if cfg.Format == "console" || cfg.Development {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	var writer *fileWriter
	if cfg.OutputPath == "" || cfg.OutputPath == "stdout" {
		sink = zapcore.AddSync(os.Stdout)
	} else {
		writer = &fileWriter{
			Filename:   cfg.OutputPath,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
		}
		sink = zapcore.AddSync(writer)
	}

	core := zapcore.NewCore(encoder, sink, level)

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return &Logger{
		Logger: zap.New(core, opts...),
		config: cfg,
		writer: writer,
	}, nil
}

// Init initializes the global logger with the provided configuration
func Init(cfg *Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}

	SetGlobal(logger)
	return nil
}

// SetGlobal sets the global logger instance
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Get returns the global logger instance
func Get() *Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	// Initialize with default config if not set
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		logger, _ := New(DefaultConfig())
		globalLogger = logger
	}

	return globalLogger
}

// WithContext returns a logger with trace information from the context
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return l
	}

	return l.WithFields(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields ...zap.Field) *Logger {
	return &Logger{
		Logger: l.With(fields...),
		config: l.config,
		writer: l.writer,
	}
}

// WithError returns a logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields(zap.Error(err))
}

// Close flushes any buffered logs and closes the underlying writer
func (l *Logger) Close() error {
	_ = l.Logger.Sync()

	if l.writer != nil {
		return l.writer.Close()
	}
	return nil
}

// parseLevel converts a string level to zapcore.Level
func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}

// createEncoderConfig creates the encoder configuration
func createEncoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		config := zap.NewDevelopmentEncoderConfig()
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		return config
	}

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.TimeKey = "timestamp"
	config.MessageKey = "message"
	config.LevelKey = "level"
	config.CallerKey = "caller"
	config.StacktraceKey = "stacktrace"
	return config
}

// Global helper functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	Get().Debug(msg, fields...)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	Get().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	Get().Warn(msg, fields...)
}

// Fatal logs a fatal message and exits using the global logger
func Fatal(msg string, fields ...Field) {
	Get().Fatal(msg, fields...)
}

// With returns a logger with additional fields using the global logger
func With(fields ...Field) *Logger {
	return Get().WithFields(fields...)
}

// WithContext returns a logger with trace context using the global logger
func WithContext(ctx context.Context) *Logger {
	return Get().WithContext(ctx)
}

// Close closes the global logger
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}
