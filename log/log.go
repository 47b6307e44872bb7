package log

import (
	"context"
	"sync/atomic"
)

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	// 默认向 stderr 输出 text 格式，避免干扰测试输出
	l, err := NewLogWithOptions(&Options{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	SetDefault(l)
}

func Default() Logger {
	return *defaultLogger.Load()
}

func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(&l)
}
