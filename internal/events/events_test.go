package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	publish func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	closed  int
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if m.publish != nil {
		return m.publish(ctx, exchange, key, mandatory, immediate, msg)
	}
	return nil
}

func (m *mockChannel) Close() error {
	m.closed++
	return nil
}

func TestRabbitMQPublisher_PublishPostEvent(t *testing.T) {
	var (
		gotExchange, gotKey string
		gotMsg              amqp.Publishing
	)
	ch := &mockChannel{publish: func(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
		gotExchange, gotKey, gotMsg = exchange, key, msg
		return nil
	}}
	p := &RabbitMQPublisher{channel: ch}

	e := NewPostEvent(TypePostCreated, uuid.New(), uuid.New(), "hola", "Hola")
	require.NoError(t, p.PublishPostEvent(context.Background(), e))

	assert.Equal(t, ExchangeName, gotExchange)
	assert.Equal(t, "post.created", gotKey)
	assert.Equal(t, "application/json", gotMsg.ContentType)
	assert.Equal(t, amqp.Persistent, gotMsg.DeliveryMode)

	var decoded PostEvent
	require.NoError(t, json.Unmarshal(gotMsg.Body, &decoded))
	assert.Equal(t, e.Payload, decoded.Payload)
	assert.Equal(t, TypePostCreated, decoded.Type)
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	ch := &mockChannel{publish: func(context.Context, string, string, bool, bool, amqp.Publishing) error {
		return errors.New("channel/connection is not open")
	}}
	p := &RabbitMQPublisher{channel: ch}

	err := p.PublishPostEvent(context.Background(), NewPostEvent(TypePostDeleted, uuid.New(), uuid.New(), "x", "X"))
	assert.ErrorContains(t, err, "publish post.deleted")
}

func TestRabbitMQPublisher_Close(t *testing.T) {
	ch := &mockChannel{}
	p := &RabbitMQPublisher{channel: ch}

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, ch.closed)
	assert.False(t, p.Healthy())

	err := p.PublishPostEvent(context.Background(), NewPostEvent(TypePostUpdated, uuid.New(), uuid.New(), "x", "X"))
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.PublishPostEvent(context.Background(), PostEvent{}))
}
