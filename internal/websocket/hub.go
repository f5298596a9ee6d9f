package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"food-donation-be/internal/model"
	"food-donation-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the Redis channel every instance publishes to and reads from.
const ClusterChannel = "cluster_events"

const broadcastTarget = "*"

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// instanceID tags outgoing cluster messages so an instance skips its own.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns client registration until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, clients := range h.clients {
				for _, c := range clients {
					close(c.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.userID] = append(h.clients[client.userID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.userID.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.userID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.userID] = append(clients[:i], clients[i+1:]...)
						close(client.send)
						break
					}
				}
				if len(h.clients[client.userID]) == 0 {
					delete(h.clients, client.userID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.userID.String()})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Connected reports how many sockets userID has on this instance.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func encode(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// Broadcast sends a notification to every connected client on every instance.
func (h *Hub) Broadcast(notification model.Notification) {
	data := encode(notification)
	h.deliverLocal(broadcastTarget, data)
	h.publish(broadcastTarget, data)
}

// Send delivers to all of userID's sockets on every instance.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data := encode(notification)
	h.deliverLocal(userID.String(), data)
	h.publish(userID.String(), data)
}

// deliverLocal never blocks: a client whose buffer is full misses the message.
func (h *Hub) deliverLocal(target string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var targets [][]*Client
	if target == broadcastTarget {
		for _, clients := range h.clients {
			targets = append(targets, clients)
		}
	} else {
		uid, err := uuid.Parse(target)
		if err != nil {
			return
		}
		targets = append(targets, h.clients[uid])
	}

	for _, clients := range targets {
		for _, client := range clients {
			select {
			case client.send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": client.userID.String()})
			}
		}
	}
}

func (h *Hub) publish(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{
		Origin:       h.instanceID,
		TargetUserID: target,
		Message:      data,
	})
	if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
		h.logger.Error("Hub", "Failed to publish to cluster", map[string]interface{}{"error": err.Error()})
	}
}

// subscribeToRedis relays messages published by other instances to local clients.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		h.logger.Error("Hub", "Redis subscribe failed", map[string]interface{}{"error": err.Error()})
		return
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(payload.TargetUserID, payload.Message)
		}
	}
}
