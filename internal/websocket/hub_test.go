package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"food-donation-be/internal/model"
	"food-donation-be/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, rdb *redis.Client) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(rdb, logger.NewNopLogger())
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func attach(t *testing.T, h *Hub, userID uuid.UUID, buffer int) *Client {
	t.Helper()
	c := &Client{hub: h, userID: userID, send: make(chan []byte, buffer)}
	before := h.Connected(userID)
	h.register <- c
	require.Eventually(t, func() bool { return h.Connected(userID) == before+1 }, time.Second, 5*time.Millisecond)
	return c
}

func receive(c *Client, wait time.Duration) ([]byte, bool) {
	select {
	case msg := <-c.send:
		return msg, true
	case <-time.After(wait):
		return nil, false
	}
}

func TestHubSendLocal(t *testing.T) {
	h := startHub(t, nil)
	alice, bob := uuid.New(), uuid.New()
	phone := attach(t, h, alice, 4)
	laptop := attach(t, h, alice, 4)
	other := attach(t, h, bob, 4)

	h.Send(alice, model.Notification{ID: uuid.New(), UserID: alice, Title: "Donation Claimed"})

	for _, c := range []*Client{phone, laptop} {
		msg, ok := receive(c, time.Second)
		require.True(t, ok)
		var envelope struct {
			Type string             `json:"type"`
			Data model.Notification `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &envelope))
		assert.Equal(t, "notification", envelope.Type)
		assert.Equal(t, "Donation Claimed", envelope.Data.Title)
	}
	_, ok := receive(other, 50*time.Millisecond)
	assert.False(t, ok)
}

func TestHubBroadcastLocal(t *testing.T) {
	h := startHub(t, nil)
	a := attach(t, h, uuid.New(), 1)
	b := attach(t, h, uuid.New(), 1)

	h.Broadcast(model.Notification{ID: uuid.New(), Title: "Maintenance"})

	_, ok := receive(a, time.Second)
	assert.True(t, ok)
	_, ok = receive(b, time.Second)
	assert.True(t, ok)
}

func TestHubFullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := startHub(t, nil)
	user := uuid.New()
	c := attach(t, h, user, 1)

	done := make(chan struct{})
	go func() {
		h.Send(user, model.Notification{ID: uuid.New()})
		h.Send(user, model.Notification{ID: uuid.New()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full client buffer")
	}
	assert.Len(t, c.send, 1)
	assert.Equal(t, 1, h.Connected(user), "slow clients stay registered")
}

func TestHubUnregister(t *testing.T) {
	h := startHub(t, nil)
	user := uuid.New()
	c := attach(t, h, user, 1)

	c.leave()
	require.Eventually(t, func() bool { return h.Connected(user) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.send
	assert.False(t, open)
}

func TestHubCrossInstanceDelivery(t *testing.T) {
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		return rdb
	}
	hubA := startHub(t, newClient())
	hubB := startHub(t, newClient())

	user := uuid.New()
	c := attach(t, hubA, user, 16)

	// Retry until instance A's subscription is live.
	require.Eventually(t, func() bool {
		hubB.Send(user, model.Notification{ID: uuid.New(), Title: "from B"})
		_, ok := receive(c, 50*time.Millisecond)
		return ok
	}, 3*time.Second, 10*time.Millisecond)

	// Drain any retries still in flight, then check A does not echo itself.
	for {
		if _, ok := receive(c, 100*time.Millisecond); !ok {
			break
		}
	}
	hubA.Send(user, model.Notification{ID: uuid.New(), Title: "from A"})
	_, ok := receive(c, time.Second)
	require.True(t, ok)
	_, dup := receive(c, 200*time.Millisecond)
	assert.False(t, dup, "an instance must not redeliver its own cluster messages")
}
