package service

import (
	"context"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/api/http/middleware"
	"go.uber.org/zap"
)

// requestLogger scopes the service logger to the request and operation
func (s *DashboardService) requestLogger(ctx context.Context, operation, sessionID string) *zap.Logger {
	requestID := middleware.GetRequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return s.logger.With(
		zap.String("request_id", requestID),
		zap.String("operation", operation),
		zap.String("session_id", sessionID),
	)
}
