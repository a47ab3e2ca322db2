package logger

import (
	"context"

	"go.uber.org/zap"
)

type key string

const (
	// KeyForLogger is used to store Logger in a context.Context
	KeyForLogger key = "logger"
	// KeyForRequestID is used to store the ID of the current request in a context.Context
	KeyForRequestID key = "request_id"
)

// Logger wraps a zap.Logger and is meant to travel inside a context.Context
// so that every layer logs with the same request-scoped fields
type Logger struct {
	l *zap.Logger
}

// NewLogger creates a new production Logger, might return an error because of zap
func NewLogger() (*Logger, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &Logger{l: zl}, nil
}

// New creates a new context.Context with a new logger placed in it
func New(ctx context.Context) (context.Context, error) {
	l, err := NewLogger()
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, KeyForLogger, l), nil
}

// WithLogger places an already built logger into ctx, used by tests and middleware
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, KeyForLogger, l)
}

// WithRequestID places a request ID into ctx so every later log line carries it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyForRequestID, requestID)
}

// GetLoggerFromCtx gets Logger from given ctx if present, else panic
func GetLoggerFromCtx(ctx context.Context) *Logger {
	return ctx.Value(KeyForLogger).(*Logger)
}

// GetOrCreateLoggerFromCtx is a safe version of GetLoggerFromCtx that creates
// a new logger if no logger is in ctx
func GetOrCreateLoggerFromCtx(ctx context.Context) *Logger {
	l, ok := ctx.Value(KeyForLogger).(*Logger)
	if !ok || l == nil {
		l, _ = NewLogger()
	}
	return l
}

// NewNop returns a logger that drops everything, for tests
func NewNop() *Logger {
	return &Logger{l: zap.NewNop()}
}

// tryAppendRequestID appends a request_id field if one is stored in ctx
func tryAppendRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if v, ok := ctx.Value(KeyForRequestID).(string); ok {
		fields = append(fields, zap.String(string(KeyForRequestID), v))
	}
	return fields
}

// Debug makes a debug level message
func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, tryAppendRequestID(ctx, fields)...)
}

// Info makes an info level message
func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, tryAppendRequestID(ctx, fields)...)
}

// Warn makes a warn level message
func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, tryAppendRequestID(ctx, fields)...)
}

// Error makes an error level message
func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, tryAppendRequestID(ctx, fields)...)
}

// Fatal makes a fatal level message
func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, tryAppendRequestID(ctx, fields)...)
}
