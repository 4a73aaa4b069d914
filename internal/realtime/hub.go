package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// EventTopic is the topic carrying registration and team updates for an event.
func EventTopic(eventID uuid.UUID) string { return "event:" + eventID.String() }

// BoardTopic is the topic carrying task updates for a board.
func BoardTopic(boardID uuid.UUID) string { return "board:" + boardID.String() }

// UserTopic is the per-user topic carrying notifications.
func UserTopic(userID uuid.UUID) string { return "user:" + userID.String() }

// Hub maintains topic -> set of connections and broadcasts messages.
// Uses Redis pub/sub for horizontal scaling; see Publish for the delivery path.
type Hub struct {
	// topic -> map[clientID]*Client
	topics   map[string]map[string]*Client
	subs     map[string]func() // cancel Redis subscription per topic
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher is the interface for publishing to Redis (for cross-instance broadcast).
type RedisPublisher interface {
	PublishTopicEvent(topic, event string, payload []byte) error
}

// RedisSubscriber subscribes to topic channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeTopic(topic string, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		topics:   make(map[string]map[string]*Client),
		subs:     make(map[string]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to a topic. Starts the Redis subscription for the topic if first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.topics[c.Topic] == nil {
		h.topics[c.Topic] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeTopic(c.Topic, func(event string, payload []byte) {
				h.broadcastLocal(c.Topic, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.Topic] = cancel
			} else {
				h.logger.Warn("topic subscribe failed", zap.String("topic", c.Topic), zap.Error(err))
			}
		}
	}
	h.topics[c.Topic][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client subscribed", zap.String("client_id", c.ID), zap.String("topic", c.Topic))
}

// Unregister removes a client from a topic. Cancels the Redis subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.topics[c.Topic]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.topics, c.Topic)
			if cancel, ok := h.subs[c.Topic]; ok {
				cancel()
				delete(h.subs, c.Topic)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client unsubscribed", zap.String("client_id", c.ID), zap.String("topic", c.Topic))
}

// broadcastLocal sends a message to all clients on a topic on this instance.
func (h *Hub) broadcastLocal(topic, event string, payload interface{}) {
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

	h.mu.RLock()
	clients := h.topics[topic]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// Publish delivers an event to every subscriber of a topic, on this instance
// and on others. Handlers call this after their transaction commits, with the
// committed row as payload, so subscribers never observe pre-write state.
//
// Delivery goes through Redis alone: the per-topic subscription started in
// Register receives the publisher's own message back and performs the local
// broadcast. Broadcasting locally here as well would hand every local client
// two copies. Local fan-out happens directly only when no pub/sub is attached
// or the publish fails.
func (h *Hub) Publish(topic, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.redis != nil {
		if err := h.redis.PublishTopicEvent(topic, event, data); err == nil {
			return
		}
		h.logger.Warn("redis publish failed, delivering locally only", zap.String("topic", topic))
	}
	h.broadcastLocal(topic, event, json.RawMessage(data))
}

// SubscriberCount returns the number of connected clients on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
