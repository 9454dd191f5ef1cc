package testutil

import "log/slog"

func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
