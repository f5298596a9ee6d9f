package nats

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"food-donation-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	maxDeliver = 5
	ackWait    = 30 * time.Second
)

// EventHandler processes one decoded event. A returned error asks for
// redelivery.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber feeds events from the EVENTS stream to a handler.
type Subscriber struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	consume jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe attaches handler to a durable consumer so restarts resume where
// they left off. Failed events are retried with a growing delay and dropped
// after maxDeliver attempts.
func (s *Subscriber) Subscribe(subject string, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(context.Background(), StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       ackWait,
		MaxDeliver:    maxDeliver,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", durableName, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decode(msg)
		if err != nil {
			log.Printf("Dropping undecodable event on %s: %v", msg.Subject(), err)
			msg.Term()
			return
		}

		if err := handler(context.Background(), event); err != nil {
			attempt := deliveryAttempt(msg)
			if attempt >= maxDeliver {
				log.Printf("Giving up on event %s (%s) after %d attempts: %v", event.EventID(), msg.Subject(), attempt, err)
				msg.Term()
				return
			}
			log.Printf("Handler failed for event %s (attempt %d): %v", msg.Subject(), attempt, err)
			msg.NakWithDelay(retryDelay(attempt))
			return
		}

		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("consume %s: %w", subject, err)
	}
	s.consume = cc

	log.Printf("Subscribed to %s with durable %s", subject, durableName)
	return nil
}

func deliveryAttempt(msg jetstream.Msg) int {
	meta, err := msg.Metadata()
	if err != nil {
		return 1
	}
	return int(meta.NumDelivered)
}

// retryDelay doubles from one second: 1s, 2s, 4s, 8s.
func retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Second << (attempt - 1)
}

func decode(msg jetstream.Msg) (events.BaseEvent, error) {
	event, err := events.Unmarshal(msg.Data())
	if err != nil {
		return event, err
	}
	if event.Type == "" {
		event.Type = strings.TrimPrefix(msg.Subject(), SubjectPrefix)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return event, nil
}

func (s *Subscriber) Close() {
	if s.consume != nil {
		s.consume.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
