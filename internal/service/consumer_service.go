package service

import (
	"context"

	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/pkg/mailer"
	"food-donation-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships events to the external stream. *nats.Publisher implements it.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventHandler processes an event in-process.
type EventHandler interface {
	HandleEvent(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	forwarder    EventForwarder
	notifier     EventHandler
	emailService mailer.IEmailService
	logger       logger.ILogger
}

// NewConsumerService drains the in-process topic. With a forwarder the
// notifier is fed from the external stream; without one it is called directly.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	notifier EventHandler,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		forwarder:    forwarder,
		notifier:     notifier,
		emailService: emailService,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: the originating request already succeeded and
// a poison message must not block the topic.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.dispatch(ctx, event)
	cs.sendEmails(event)
}

func (cs *consumerService) dispatch(ctx context.Context, event events.Event) {
	if cs.forwarder != nil {
		err := cs.forwarder.Publish(ctx, event)
		if err == nil {
			return
		}
		cs.logger.Warn("CONSUMER", "Forwarding to event stream failed, handling locally", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
	if cs.notifier == nil {
		return
	}
	if err := cs.notifier.HandleEvent(ctx, event); err != nil {
		cs.logger.Error("CONSUMER", "Notification handling failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func (cs *consumerService) sendEmails(event events.Event) {
	if cs.emailService == nil {
		return
	}
	p := event.Payload()
	str := func(key string) string {
		v, _ := p[key].(string)
		return v
	}

	var err error
	switch event.EventType() {
	case events.DonationClaimed:
		if str("donor_email") == "" {
			return
		}
		pickup := str("pickup_time")
		if pickup == "" {
			pickup = "to be arranged"
		}
		err = cs.emailService.SendDonationClaimed(str("donor_email"), str("donor_name"), str("food_name"), str("charity_name"), pickup)
	case events.DonationReceived:
		if str("donor_email") == "" {
			return
		}
		err = cs.emailService.SendDonationReceived(str("donor_email"), str("donor_name"), str("food_name"), str("charity_name"))
	case events.UserVerified:
		if str("user_email") == "" {
			return
		}
		err = cs.emailService.SendAccountVerified(str("user_email"), str("user_name"))
	default:
		return
	}

	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to send email", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
