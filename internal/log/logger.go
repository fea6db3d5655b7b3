package log

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger and stamps every record with a component field.
type Logger struct {
	*slog.Logger
	component string
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}

	return &Logger{
		Logger:    slog.New(handler),
		component: config.Component,
	}
}

// WithComponent returns a new logger scoped to a component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Info logs at Info level with component context
func (l *Logger) Info(msg string, args ...any) {
	l.Logger.Info(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// InfoContext logs at Info level with context and component
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.Logger.InfoContext(ctx, msg, append([]any{FieldComponent, l.component}, args...)...)
}

// Warn logs at Warn level with component context
func (l *Logger) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// Error logs at Error level with component context
func (l *Logger) Error(msg string, args ...any) {
	l.Logger.Error(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// ErrorContext logs at Error level with context and component
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.Logger.ErrorContext(ctx, msg, append([]any{FieldComponent, l.component}, args...)...)
}

// Debug logs at Debug level with component context
func (l *Logger) Debug(msg string, args ...any) {
	l.Logger.Debug(msg, append([]any{FieldComponent, l.component}, args...)...)
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
