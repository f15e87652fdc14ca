package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// New builds a sugared zap logger. Output is JSON unless stderr is a
// terminal, in which case the console encoder is used.
func New(level string) Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return Nop()
	}
	return logger.Sugar()
}

// Nop discards everything; used by tests.
func Nop() Logger {
	return zap.NewNop().Sugar()
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

var (
	mu            sync.RWMutex
	defaultLogger Logger
)

// SetDefault replaces the logger used by the package-level helpers.
func SetDefault(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Default returns the package-level logger, building an info logger on
// first use.
func Default() Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("info")
	}
	return defaultLogger
}

func Debug(msg string, keysAndValues ...interface{}) {
	Default().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	Default().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	Default().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	Default().Errorw(msg, keysAndValues...)
}
