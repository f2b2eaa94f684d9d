package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
)

const (
	defaultQueueSize   = 128
	defaultSendTimeout = 5 * time.Second
	defaultMaxAttempts = 3
)

// Dispatcher delivers notification events asynchronously. Publish never
// blocks the caller: events are queued on a buffered channel and a
// worker goroutine drives the Sender. A full queue drops the event with
// a warning rather than stalling signup processing.
type Dispatcher struct {
	sender      Sender
	logger      *zap.Logger
	queue       chan model.NotificationEvent
	sendTimeout time.Duration
	maxAttempts int

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts the delivery worker. Callers must Close the
// dispatcher to drain the queue on shutdown.
func NewDispatcher(sender Sender, cfg *config.Config, logger *zap.Logger) *Dispatcher {
	queueSize := cfg.NotifyQueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	sendTimeout := defaultSendTimeout
	if cfg.NotifySendTimeoutSec > 0 {
		sendTimeout = time.Duration(cfg.NotifySendTimeoutSec) * time.Second
	}
	maxAttempts := cfg.NotifyMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	d := &Dispatcher{
		sender:      sender,
		logger:      logger,
		queue:       make(chan model.NotificationEvent, queueSize),
		sendTimeout: sendTimeout,
		maxAttempts: maxAttempts,
		done:        make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues an event for asynchronous delivery.
func (d *Dispatcher) Publish(event model.NotificationEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("Notification queue full, dropping event",
			zap.String("user_id", event.UserID),
			zap.String("kind", string(event.Kind)))
	}
}

// Close stops accepting events and blocks until queued events have been
// delivered or abandoned.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event model.NotificationEvent) {
	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		lastErr = d.sender.Send(ctx, event)
		cancel()
		if lastErr == nil {
			d.logger.Debug("Notification delivered",
				zap.String("user_id", event.UserID),
				zap.String("kind", string(event.Kind)),
				zap.Int("attempt", attempt))
			return
		}
		d.logger.Warn("Notification delivery failed",
			zap.String("user_id", event.UserID),
			zap.String("kind", string(event.Kind)),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
	}
	d.logger.Error("Notification abandoned after retries",
		zap.String("user_id", event.UserID),
		zap.String("kind", string(event.Kind)),
		zap.Error(lastErr))
}
