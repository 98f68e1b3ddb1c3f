package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Hub owns the room registry: presentation_id -> set of connections.
// Connections hold only their client ID into it; membership cleanup is
// driven by explicit unregister calls on disconnect, never by garbage
// collection. Uses Redis pub/sub for horizontal scaling: local broadcast +
// publish to Redis.
type Hub struct {
	// presentationID -> map[clientID]*Client
	rooms    map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func() // cancel Redis subscription per room
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher is the interface for publishing to Redis (for cross-instance broadcast).
type RedisPublisher interface {
	PublishRoomEvent(presentationID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to room channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeRoom(presentationID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		rooms:    make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to a presentation room. Starts the Redis
// subscription for the room when the first client joins.
func (h *Hub) Register(c *Client, presentationID uuid.UUID) {
	h.mu.Lock()
	if h.rooms[presentationID] == nil {
		h.rooms[presentationID] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeRoom(presentationID, func(event string, payload []byte) {
				h.broadcastLocal(presentationID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[presentationID] = cancel
			}
		}
	}
	h.rooms[presentationID][c.ID] = c
	size := len(h.rooms[presentationID])
	h.mu.Unlock()

	// Room size is advisory, for diagnostics only.
	h.logger.Debug("client joined room",
		zap.String("client_id", c.ID),
		zap.String("presentation_id", presentationID.String()),
		zap.Int("room_size", size))
}

// Unregister removes a client from a presentation room. Cancels the Redis
// subscription when the last client leaves.
func (h *Hub) Unregister(c *Client, presentationID uuid.UUID) {
	h.mu.Lock()
	var size int
	if m, ok := h.rooms[presentationID]; ok {
		delete(m, c.ID)
		size = len(m)
		if size == 0 {
			delete(h.rooms, presentationID)
			if cancel, ok := h.subs[presentationID]; ok {
				cancel()
				delete(h.subs, presentationID)
			}
		}
	}
	h.mu.Unlock()

	h.logger.Debug("client left room",
		zap.String("client_id", c.ID),
		zap.String("presentation_id", presentationID.String()),
		zap.Int("room_size", size))
}

// broadcastLocal sends a message to all clients in a room on this instance.
func (h *Hub) broadcastLocal(presentationID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	// Snapshot the membership under the lock; Register/Unregister mutate the
	// inner map concurrently and iterating it unlocked is a fatal map race.
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[presentationID]))
	for _, c := range h.rooms[presentationID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastToRoom sends an event to every connection in the room: local
// clients directly, other instances via Redis. The Redis bridge filters out
// this instance's own messages so local clients see each event once.
func (h *Hub) BroadcastToRoom(presentationID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.broadcastLocal(presentationID, event, json.RawMessage(data))
	if h.redis != nil {
		_ = h.redis.PublishRoomEvent(presentationID, event, data)
	}
}

// RoomSize returns the number of connected clients in a room on this
// instance. Advisory only; never gates correctness.
func (h *Hub) RoomSize(presentationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[presentationID])
}
