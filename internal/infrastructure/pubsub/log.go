package pubsub

import (
	"fmt"
	"log/slog"
)

// Logger adapts slog to the asynq.Logger interface.
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Debug(args ...interface{}) {
	slog.Debug(fmt.Sprint(args...))
}

func (l *Logger) Info(args ...interface{}) {
	slog.Info(fmt.Sprint(args...))
}

func (l *Logger) Warn(args ...interface{}) {
	slog.Warn(fmt.Sprint(args...))
}

func (l *Logger) Error(args ...interface{}) {
	slog.Error(fmt.Sprint(args...))
}

func (l *Logger) Fatal(args ...interface{}) {
	slog.Error(fmt.Sprint(args...))
}
