package utils

import (
	"context"
	"log/slog"
)

// LogErrorContinue logs an error when execution continues regardless.
func LogErrorContinue(ctx context.Context, action string, err error) {
	slog.ErrorContext(ctx, "failed to "+action, "error", err)
}
