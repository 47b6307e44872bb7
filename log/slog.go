package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hatlonely/fakemodel/cfg"
)

// Options 日志初始化选项
type Options struct {
	// 日志级别：debug, info, warn, error
	Level string `cfg:"level" def:"info" validate:"oneof=debug info warn warning error"`

	// 输出格式：text, json
	Format string `cfg:"format" def:"text" validate:"oneof=text json"`

	// 输出目标：stdout, stderr, discard
	Output string `cfg:"output" def:"stderr" validate:"oneof=stdout stderr discard"`

	// 是否显示调用者信息
	AddSource bool `cfg:"addSource" yaml:"addSource"`

	// 自定义字段
	Fields map[string]any `cfg:"fields"`

	// 自定义输出，优先于 Output
	Writer io.Writer `cfg:"-" yaml:"-" json:"-" toml:"-"`
}

type SLog struct {
	slogger *slog.Logger
}

func NewLogWithOptions(options *Options) (*SLog, error) {
	if options == nil {
		options = &Options{}
	}
	opts := *options
	if err := cfg.SetDefaults(&opts); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}
	if err := cfg.Validate(&opts); err != nil {
		return nil, fmt.Errorf("invalid log options: %w", err)
	}

	w := opts.Writer
	if w == nil {
		switch opts.Output {
		case "stdout":
			w = os.Stdout
		case "discard":
			w = io.Discard
		default:
			w = os.Stderr
		}
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	slogger := slog.New(handler)
	if len(opts.Fields) > 0 {
		args := make([]any, 0, len(opts.Fields)*2)
		for k, v := range opts.Fields {
			args = append(args, k, v)
		}
		slogger = slogger.With(args...)
	}

	return &SLog{slogger: slogger}, nil
}

// Discard 丢弃所有日志
func Discard() Logger {
	return &SLog{slogger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SLog) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

func (l *SLog) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

func (l *SLog) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

func (l *SLog) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

func (l *SLog) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slogger.DebugContext(ctx, msg, args...)
}

func (l *SLog) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slogger.InfoContext(ctx, msg, args...)
}

func (l *SLog) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slogger.WarnContext(ctx, msg, args...)
}

func (l *SLog) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slogger.ErrorContext(ctx, msg, args...)
}

func (l *SLog) With(args ...any) Logger {
	return &SLog{slogger: l.slogger.With(args...)}
}

func (l *SLog) WithGroup(name string) Logger {
	return &SLog{slogger: l.slogger.WithGroup(name)}
}
