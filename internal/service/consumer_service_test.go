package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"food-donation-be/internal/pkg/logger"
	"food-donation-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubForwarder struct {
	mu   sync.Mutex
	err  error
	seen []string
}

func (s *stubForwarder) Publish(ctx context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, event.EventType())
	return s.err
}

func (s *stubForwarder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

type recordingHandler struct {
	mu   sync.Mutex
	seen []events.Event
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event)
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

type recordingMailer struct {
	mu    sync.Mutex
	calls []string
}

func (m *recordingMailer) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return nil
}

func (m *recordingMailer) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *recordingMailer) SendDonationClaimed(to, donor, food, charity, pickup string) error {
	return m.record("claimed:" + to + ":" + pickup)
}

func (m *recordingMailer) SendDonationReceived(to, donor, food, charity string) error {
	return m.record("received:" + to)
}

func (m *recordingMailer) SendAccountVerified(to, name string) error {
	return m.record("verified:" + to)
}

func startConsumer(t *testing.T, forwarder EventForwarder, notifier EventHandler, mail *recordingMailer) IPublisherService {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	consumer := NewConsumerService(pubSub, "events", forwarder, notifier, mail, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))
	return NewPublisherService("events", pubSub)
}

func TestConsumerForwardsAndMails(t *testing.T) {
	forwarder := &stubForwarder{}
	notifier := &recordingHandler{}
	mail := &recordingMailer{}
	publisher := startConsumer(t, forwarder, notifier, mail)

	require.NoError(t, publisher.Publish(context.Background(), events.New(events.DonationClaimed, map[string]interface{}{
		"donor_email": "donor@example.com",
		"food_name":   "Bread",
	})))

	assert.Eventually(t, func() bool { return len(mail.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"claimed:donor@example.com:to be arranged"}, mail.snapshot())
	assert.Equal(t, 1, forwarder.count())
	assert.Zero(t, notifier.count(), "forwarded events reach the notifier through the stream")
}

func TestConsumerFallsBackWhenForwardingFails(t *testing.T) {
	forwarder := &stubForwarder{err: errors.New("stream unavailable")}
	notifier := &recordingHandler{}
	mail := &recordingMailer{}
	publisher := startConsumer(t, forwarder, notifier, mail)

	require.NoError(t, publisher.Publish(context.Background(), events.New(events.UserVerified, map[string]interface{}{
		"user_email": "pantry@example.com",
		"user_name":  "City Pantry",
	})))
	require.NoError(t, publisher.Publish(context.Background(), events.New(events.DonationCreated, map[string]interface{}{
		"food_name": "Soup",
	})))

	assert.Eventually(t, func() bool { return notifier.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"verified:pantry@example.com"}, mail.snapshot())
}

func TestConsumerWithoutForwarder(t *testing.T) {
	notifier := &recordingHandler{}
	mail := &recordingMailer{}
	publisher := startConsumer(t, nil, notifier, mail)

	require.NoError(t, publisher.Publish(context.Background(), events.New(events.DonationReceived, map[string]interface{}{
		"food_name": "Bread",
	})))

	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Empty(t, mail.snapshot(), "no donor email, no mail")
}
