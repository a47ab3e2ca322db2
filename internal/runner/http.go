package runner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
)

// RunHTTP calls ListenAndServe on given srv, logs the beginning and the failure
func RunHTTP(ctx context.Context, srv *http.Server) {
	logger.GetLoggerFromCtx(ctx).Info(ctx, fmt.Sprintf("listening at %s", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.GetLoggerFromCtx(ctx).Error(ctx, "failed to serve http", zap.Error(err))
	}
}

// ShutdownHTTP stops httpServer with a 10 seconds timeout, logs on error
func ShutdownHTTP(ctx context.Context, httpServer *http.Server) {
	cancelCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(cancelCtx); err != nil {
		logger.GetLoggerFromCtx(ctx).Warn(ctx, "failed to shutdown http server", zap.Error(err))
	}
}
