package logger

import (
	"log/slog"
	"time"
)

// LogCommand logs slash command execution.
func LogCommand(name string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "cmd"),
		slog.String("name", name),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Command failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Info("Command executed", attrs...)
	}
}

// LogEngine logs progression engine operations.
func LogEngine(op string, userID string, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "engine"),
		slog.String("operation", op),
		slog.String("user_id", userID),
	}
	slog.Info("Engine operation", append(baseAttrs, attrs...)...)
}

// LogError logs error events.
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
