package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type captureSender struct {
	mu       sync.Mutex
	events   []model.NotificationEvent
	failures int // number of initial sends to fail
}

func (s *captureSender) Send(ctx context.Context, event model.NotificationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("transport unavailable")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *captureSender) sent() []model.NotificationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.NotificationEvent(nil), s.events...)
}

func TestDispatcher_DeliversOnClose(t *testing.T) {
	sender := &captureSender{}
	dispatcher := NewDispatcher(sender, &config.Config{}, zap.NewNop())

	dispatcher.Publish(model.NotificationEvent{UserID: "vera", Kind: model.NotifySignupConfirmed})
	dispatcher.Publish(model.NotificationEvent{UserID: "omar", Kind: model.NotifyPromoted})
	dispatcher.Close()

	events := sender.sent()
	assert.Len(t, events, 2)
	assert.Equal(t, "vera", events[0].UserID)
	assert.Equal(t, model.NotifyPromoted, events[1].Kind)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestDispatcher_RetriesFailedSends(t *testing.T) {
	sender := &captureSender{failures: 2}
	dispatcher := NewDispatcher(sender, &config.Config{NotifyMaxAttempts: 3}, zap.NewNop())

	dispatcher.Publish(model.NotificationEvent{UserID: "vera", Kind: model.NotifySignupConfirmed})
	dispatcher.Close()

	assert.Len(t, sender.sent(), 1)
}

func TestDispatcher_AbandonsAfterMaxAttempts(t *testing.T) {
	sender := &captureSender{failures: 5}
	dispatcher := NewDispatcher(sender, &config.Config{NotifyMaxAttempts: 2}, zap.NewNop())

	dispatcher.Publish(model.NotificationEvent{UserID: "vera", Kind: model.NotifySignupConfirmed})
	dispatcher.Close()

	assert.Empty(t, sender.sent())
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	sender := &captureSender{}
	dispatcher := NewDispatcher(sender, &config.Config{NotifyQueueSize: 1}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			dispatcher.Publish(model.NotificationEvent{UserID: "vera", Kind: model.NotifyPlaced})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	dispatcher.Close()
}
