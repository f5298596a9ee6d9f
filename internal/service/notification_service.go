package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"food-donation-be/internal/model"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/pkg/events"
	pktNats "food-donation-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Target types of the notification registry.
const (
	TargetRecipients = "RECIPIENTS"
	TargetAdmin      = "ADMIN"
	TargetRole       = "ROLE"
	TargetBroadcast  = "BROADCAST"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		delivery:   delivery,
		logger:     log,
	}
}

// Start consumes the JetStream events stream with a durable consumer.
func (s *NotificationService) Start(sub *pktNats.Subscriber) error {
	if err := sub.Subscribe(pktNats.SubjectPrefix+">", "notif-service-worker", s.HandleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
	return nil
}

// HandleEvent turns an event into stored notifications according to the
// registry entry for its type, then pushes them to connected clients.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), pktNats.SubjectPrefix)
	repo := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository()

	config, err := repo.FindType(ctx, typeCode)
	if err != nil {
		return err
	}
	if config == nil {
		s.logger.Debug("NotificationService", "No notification type registered", map[string]interface{}{"code": typeCode})
		return nil
	}
	if !config.IsActive {
		return nil
	}

	// Broadcasts are push only; storing one row per user does not scale.
	if config.TargetType == TargetBroadcast {
		if s.delivery != nil {
			s.delivery.Broadcast(s.buildNotification(uuid.Nil, config, event))
		}
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error resolving recipients for %s", typeCode), map[string]interface{}{"error": err.Error()})
		return err
	}

	batch := make([]model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		batch = append(batch, s.buildNotification(userID, config, event))
	}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("NotificationService", "Error saving notifications", map[string]interface{}{
			"type":  typeCode,
			"error": err.Error(),
		})
		return err
	}
	if s.delivery != nil {
		for _, notif := range batch {
			s.delivery.Send(notif.UserID, notif)
		}
	}

	s.logger.Info("NotificationService", "Event processed", map[string]interface{}{
		"type":       typeCode,
		"recipients": len(recipients),
	})
	return nil
}

// resolveRecipients never notifies the actor about their own action.
func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	payload := event.Payload()
	var candidates []uuid.UUID

	switch config.TargetType {
	case TargetRecipients:
		for _, raw := range events.StringSlice(payload, "recipient_ids") {
			if uid, err := uuid.Parse(raw); err == nil {
				candidates = append(candidates, uid)
			}
		}
	case TargetAdmin:
		ids, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().ActiveUserIDsByRole(ctx, "admin")
		if err != nil {
			return nil, err
		}
		candidates = ids
	case TargetRole:
		ids, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().ActiveUserIDsByRole(ctx, config.TargetRole)
		if err != nil {
			return nil, err
		}
		candidates = ids
	default:
		s.logger.Warn("NotificationService", "Unknown target type", map[string]interface{}{"target_type": config.TargetType})
	}

	var actorID uuid.UUID
	if raw, ok := payload["actor_id"].(string); ok {
		actorID, _ = uuid.Parse(raw)
	}

	seen := make(map[uuid.UUID]bool, len(candidates))
	userIDs := make([]uuid.UUID, 0, len(candidates))
	for _, id := range candidates {
		if id == uuid.Nil || id == actorID || seen[id] {
			continue
		}
		seen[id] = true
		userIDs = append(userIDs, id)
	}
	return userIDs, nil
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	msg := config.Template
	payload := event.Payload()

	for k, v := range payload {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{%s}", k), fmt.Sprintf("%v", v))
	}

	var actorID *uuid.UUID
	if actorStr, ok := payload["actor_id"].(string); ok {
		if aid, err := uuid.Parse(actorStr); err == nil {
			actorID = &aid
		}
	}

	entityType, _ := payload["entity_type"].(string)
	var entityID *uuid.UUID
	if eidStr, ok := payload["entity_id"].(string); ok {
		if eid, err := uuid.Parse(eidStr); err == nil {
			entityID = &eid
		}
	}

	metaMap := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		if k == "recipient_ids" || strings.HasSuffix(k, "_email") {
			continue
		}
		metaMap[k] = v
	}
	if entityType != "" && entityID != nil {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID.String())
	}
	metaJSON, _ := json.Marshal(metaMap)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		ActorID:    actorID,
		TypeCode:   config.Code,
		Title:      config.DisplayName,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
		IsRead:     false,
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	if limit < 1 {
		limit = 20
	}
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().FindByUser(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().CountUnread(ctx, userID)
}

// MarkAsRead only touches a notification owned by userID.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAllRead(ctx, userID)
}

// BroadcastSystem pushes an ad-hoc admin message to every connected client.
func (s *NotificationService) BroadcastSystem(ctx context.Context, actorID uuid.UUID, title, message string) {
	if s.delivery == nil {
		return
	}
	s.delivery.Broadcast(model.Notification{
		ID:        uuid.New(),
		ActorID:   &actorID,
		TypeCode:  "SYSTEM_BROADCAST",
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	})
}
