package service

import (
	"sync"
	"testing"

	"food-donation-be/internal/entity"
	"food-donation-be/internal/model"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu        sync.Mutex
	sent      map[uuid.UUID][]model.Notification
	broadcast []model.Notification
}

func newRecordingDelivery() *recordingDelivery {
	return &recordingDelivery{sent: map[uuid.UUID][]model.Notification{}}
}

func (d *recordingDelivery) Send(userID uuid.UUID, n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[userID] = append(d.sent[userID], n)
}

func (d *recordingDelivery) Broadcast(n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broadcast = append(d.broadcast, n)
}

func (f *fixture) notificationType(code, template, target, role string) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&model.NotificationType{
		Code:        code,
		DisplayName: code,
		Template:    template,
		TargetType:  target,
		TargetRole:  role,
		IsActive:    true,
	}).Error)
}

func TestNotificationRecipients(t *testing.T) {
	f := newFixture(t)
	delivery := newRecordingDelivery()
	svc := NewNotificationService(f.factory, delivery, f.log)

	f.notificationType(events.DonationClaimed, "{charity_name} claimed {food_name}", TargetRecipients, "")
	f.notificationType(events.DonationCreated, "New donation: {food_name}", TargetRole, "charity")
	f.notificationType(events.UserRegistered, "{user_name} joined", TargetAdmin, "")

	admin := f.user(entity.UserRoleAdmin, true)
	donor := f.user(entity.UserRoleDonor, true)
	charity := f.user(entity.UserRoleCharity, true)
	other := f.user(entity.UserRoleCharity, true)
	donationId := uuid.New()

	t.Run("explicit recipients", func(t *testing.T) {
		require.NoError(t, svc.HandleEvent(f.ctx, events.New(events.DonationClaimed, map[string]interface{}{
			"food_name":     "Bread",
			"charity_name":  "City Pantry",
			"donor_email":   donor.Email,
			"actor_id":      charity.Id.String(),
			"recipient_ids": []interface{}{donor.Id.String(), charity.Id.String()},
			"entity_type":   "donation",
			"entity_id":     donationId.String(),
		})))

		items, total, err := svc.GetNotifications(f.ctx, donor.Id, 10, 0)
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, "City Pantry claimed Bread", items[0].Message)
		require.NotNil(t, items[0].EntityID)
		assert.Equal(t, donationId, *items[0].EntityID)
		assert.NotContains(t, string(items[0].Metadata), "donor_email")
		assert.Contains(t, string(items[0].Metadata), "/donations/"+donationId.String())

		_, total, err = svc.GetNotifications(f.ctx, charity.Id, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, total, "the actor is never notified")
		assert.Len(t, delivery.sent[donor.Id], 1)
	})

	t.Run("role target reaches every charity except the actor", func(t *testing.T) {
		require.NoError(t, svc.HandleEvent(f.ctx, events.New(events.DonationCreated, map[string]interface{}{
			"food_name": "Soup",
			"actor_id":  donor.Id.String(),
		})))
		for _, id := range []uuid.UUID{charity.Id, other.Id} {
			n, err := svc.GetUnreadCount(f.ctx, id)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		}
		n, err := svc.GetUnreadCount(f.ctx, admin.Id)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("admin target", func(t *testing.T) {
		newcomer := uuid.New()
		require.NoError(t, svc.HandleEvent(f.ctx, events.New(events.UserRegistered, map[string]interface{}{
			"user_name": "Newcomer",
			"actor_id":  newcomer.String(),
		})))
		items, _, err := svc.GetNotifications(f.ctx, admin.Id, 10, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Newcomer joined", items[0].Message)
	})

	t.Run("unknown codes are ignored", func(t *testing.T) {
		assert.NoError(t, svc.HandleEvent(f.ctx, events.New("SOMETHING_ELSE", nil)))
	})

	t.Run("read state", func(t *testing.T) {
		items, _, err := svc.GetNotifications(f.ctx, charity.Id, 10, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)

		require.NoError(t, svc.MarkAsRead(f.ctx, charity.Id, items[0].ID))
		n, err := svc.GetUnreadCount(f.ctx, charity.Id)
		require.NoError(t, err)
		assert.Zero(t, n)

		require.NoError(t, svc.MarkAllAsRead(f.ctx, other.Id))
		n, err = svc.GetUnreadCount(f.ctx, other.Id)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("broadcast is push only", func(t *testing.T) {
		svc.BroadcastSystem(f.ctx, admin.Id, "Maintenance", "Back soon")
		require.Len(t, delivery.broadcast, 1)
		assert.Equal(t, "Maintenance", delivery.broadcast[0].Title)
	})
}
