package app

import (
	"log/slog"
	"os"
)

// App wires the booking core together: relational store, open-slot cache, and
// logger. Handlers hang off it as methods.
type App struct {
	store  Store
	cache  *SlotCache
	logger *slog.Logger
}

func New(store Store, cache *SlotCache, logger *slog.Logger) *App {
	if cache == nil {
		cache = &SlotCache{}
	}
	if logger == nil {
		logger = NewLogger("fitbook")
	}
	return &App{store: store, cache: cache, logger: logger}
}

func NewLogger(service string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h).With("service", service)
}
