package logger

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/internal/config"
)

// Setup configures the global slog logger based on environment.
// Game text owns stdout, so callers pass stderr or a log file here.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithGameID adds the game ID to logger context
func WithGameID(logger *slog.Logger, gameID uuid.UUID) *slog.Logger {
	return logger.With("game_id", gameID.String())
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
