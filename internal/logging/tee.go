package logging

import "context"

// Tee returns a Logger that forwards every record to both loggers. The CLI
// uses it to keep human output on stderr while a project log file records the
// same run in JSON.
func Tee(a, b Logger) Logger {
	return &teeLogger{a: a, b: b}
}

type teeLogger struct{ a, b Logger }

func (l *teeLogger) Debug(ctx context.Context, msg string, kv ...any) {
	l.a.Debug(ctx, msg, kv...)
	l.b.Debug(ctx, msg, kv...)
}

func (l *teeLogger) Debugf(ctx context.Context, format string, args ...any) {
	l.a.Debugf(ctx, format, args...)
	l.b.Debugf(ctx, format, args...)
}

func (l *teeLogger) Info(ctx context.Context, msg string, kv ...any) {
	l.a.Info(ctx, msg, kv...)
	l.b.Info(ctx, msg, kv...)
}

func (l *teeLogger) Infof(ctx context.Context, format string, args ...any) {
	l.a.Infof(ctx, format, args...)
	l.b.Infof(ctx, format, args...)
}

func (l *teeLogger) Warn(ctx context.Context, msg string, kv ...any) {
	l.a.Warn(ctx, msg, kv...)
	l.b.Warn(ctx, msg, kv...)
}

func (l *teeLogger) Warnf(ctx context.Context, format string, args ...any) {
	l.a.Warnf(ctx, format, args...)
	l.b.Warnf(ctx, format, args...)
}

func (l *teeLogger) Error(ctx context.Context, msg string, kv ...any) {
	l.a.Error(ctx, msg, kv...)
	l.b.Error(ctx, msg, kv...)
}

func (l *teeLogger) Errorf(ctx context.Context, format string, args ...any) {
	l.a.Errorf(ctx, format, args...)
	l.b.Errorf(ctx, format, args...)
}

func (l *teeLogger) With(kv ...any) Logger {
	return &teeLogger{a: l.a.With(kv...), b: l.b.With(kv...)}
}
