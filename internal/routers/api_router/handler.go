// Package api_router provides the HTTP API route handlers.
package api_router

import (
	"context"

	"github.com/hometracker/home-backup-service/internal/app"
	"github.com/hometracker/home-backup-service/internal/middleware"
	"github.com/hometracker/home-backup-service/pkg/logger"

	"go.uber.org/zap"
)

// Handler is the base handler embedding the app container. All API
// handlers embed it for dependency access.
type Handler struct {
	App *app.App
}

// NewHandler creates a base Handler instance.
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError records an error with the request trace ID.
func (h *Handler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, traceID),
	)
}
