package notification

import (
	"context"
	"log/slog"

	"storefront/internal/domain/service"
)

// noopService is used when Firebase is not configured, e.g. in local
// development. Notifications are logged instead of delivered.
type noopService struct {
	logger *slog.Logger
}

// NewNoopService creates a notification service that only logs.
func NewNoopService(logger *slog.Logger) service.NotificationService {
	return &noopService{logger: logger}
}

func (s *noopService) SendSingleNotification(_ context.Context, token, title, body string, _ map[string]string) error {
	s.logger.Debug("Push notification suppressed (no provider configured)",
		slog.String("token", token), slog.String("title", title), slog.String("body", body))

	return nil
}
