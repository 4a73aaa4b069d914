package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// loopbackPubSub behaves like Redis pub/sub for a single instance: every
// published message is delivered back to the publishing instance's own
// subscription, just as Redis echoes a publisher its own message.
type loopbackPubSub struct {
	handlers map[string][]func(event string, payload []byte)
}

func newLoopbackPubSub() *loopbackPubSub {
	return &loopbackPubSub{handlers: map[string][]func(event string, payload []byte){}}
}

func (l *loopbackPubSub) PublishTopicEvent(topic, event string, payload []byte) error {
	for _, h := range l.handlers[topic] {
		h(event, payload)
	}
	return nil
}

func (l *loopbackPubSub) SubscribeTopic(topic string, handler func(event string, payload []byte)) (func(), error) {
	l.handlers[topic] = append(l.handlers[topic], handler)
	return func() { delete(l.handlers, topic) }, nil
}

func drain(c *Client) []WSMessage {
	var out []WSMessage
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestPublishDeliversExactlyOnce(t *testing.T) {
	pubsub := newLoopbackPubSub()
	hub := NewHub(zap.NewNop(), pubsub, pubsub)

	topic := EventTopic(uuid.New())
	client := &Client{ID: "c1", Topic: topic, send: make(chan WSMessage, 8)}
	hub.Register(client)

	hub.Publish(topic, "registration_created", map[string]string{"id": "r1"})

	got := drain(client)
	assert.Len(t, got, 1)
	assert.Equal(t, "registration_created", got[0].Event)
}

func TestPublishWithoutPubSubFallsBackLocally(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)

	topic := BoardTopic(uuid.New())
	client := &Client{ID: "c1", Topic: topic, send: make(chan WSMessage, 8)}
	hub.Register(client)

	hub.Publish(topic, "task_moved", map[string]string{"id": "t1"})

	got := drain(client)
	assert.Len(t, got, 1)
	assert.Equal(t, "task_moved", got[0].Event)
}

func TestUnregisterCancelsTopicSubscription(t *testing.T) {
	pubsub := newLoopbackPubSub()
	hub := NewHub(zap.NewNop(), pubsub, pubsub)

	topic := UserTopic(uuid.New())
	client := &Client{ID: "c1", Topic: topic, send: make(chan WSMessage, 8)}
	hub.Register(client)
	assert.Len(t, pubsub.handlers[topic], 1)

	hub.Unregister(client)
	assert.Empty(t, pubsub.handlers[topic])
	assert.Zero(t, hub.SubscriberCount(topic))
}
