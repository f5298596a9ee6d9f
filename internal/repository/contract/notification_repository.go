package contract

import (
	"context"

	"food-donation-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead fails with NotFound unless userID owns the notification.
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// FindType returns nil when no type is registered under code.
	FindType(ctx context.Context, code string) (*model.NotificationType, error)
	ActiveUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
}
