package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
)

// Sender delivers a single notification event to a volunteer. Delivery
// transport (email, SMS, push) is behind this interface; the services
// only produce events.
type Sender interface {
	Send(ctx context.Context, event model.NotificationEvent) error
}

// LogSender writes notifications to the application log. It is the
// default sender when no delivery transport is configured, and is
// useful in development and tests.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) LogSender {
	return LogSender{logger: logger}
}

func (s LogSender) Send(ctx context.Context, event model.NotificationEvent) error {
	s.logger.Info("Notification",
		zap.String("user_id", event.UserID),
		zap.String("kind", string(event.Kind)),
		zap.String("shift_id", event.RelatedShiftID),
		zap.String("message", event.Message),
		zap.Time("occurred_at", event.OccurredAt))
	return nil
}
