package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"deadline_tracker/pkg/ctxdata"
)

const requestID = "request_id"

type loggerKey struct{}

// Logger is a zap logger whose methods take the request context and append
// its trace id as request_id.
type Logger struct {
	l *zap.Logger
}

func New(zapLogger *zap.Logger) *Logger {
	// skip log() and the level method so callers show up in the caller field
	return &Logger{zapLogger.WithOptions(zap.AddCallerSkip(2))}
}

func NewNop() *Logger {
	return &Logger{zap.NewNop()}
}

// NewZap builds the underlying zap logger: the production encoder for "json",
// the development one otherwise. An empty level keeps the preset's default.
func NewZap(format, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}
	return zapLogger, nil
}

func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func GetFromContext(ctx context.Context) (*Logger, bool) {
	logger, ok := ctx.Value(loggerKey{}).(*Logger)
	return logger, ok
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l.l.With(fields...)}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.FatalLevel, msg, fields)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func (l *Logger) log(ctx context.Context, lvl zapcore.Level, msg string, fields []zap.Field) {
	ce := l.l.Check(lvl, msg)
	if ce == nil {
		return
	}
	if traceID, ok := ctxdata.GetTraceID(ctx); ok {
		fields = append(fields, zap.String(requestID, traceID))
	}
	ce.Write(fields...)
}
