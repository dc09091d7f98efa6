package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu   sync.Mutex
	msgs []amqp.Publishing
	keys []string
	err  error
}

func (c *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "movie-access.events")
	fixed := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	err := p.Publish(context.Background(), Event{
		Type:    UserRegistered,
		UserUID: "uid-1",
		Email:   "user@example.com",
		Role:    "free",
	})
	require.NoError(t, err)

	require.Len(t, ch.msgs, 1)
	assert.Equal(t, "user.registered", ch.keys[0])

	var got Event
	require.NoError(t, json.Unmarshal(ch.msgs[0].Body, &got))
	assert.Equal(t, UserRegistered, got.Type)
	assert.Equal(t, "uid-1", got.UserUID)
	assert.True(t, fixed.Equal(got.OccurredAt))
}

func TestAMQPPublisher_Errors(t *testing.T) {
	t.Run("channel error", func(t *testing.T) {
		p := NewAMQPPublisher(&fakeChannel{err: errors.New("closed")}, "x")
		assert.Error(t, p.Publish(context.Background(), Event{Type: UserLoggedIn}))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ch := &fakeChannel{}
		p := NewAMQPPublisher(ch, "x")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, p.Publish(ctx, Event{Type: UserLoggedIn}), context.Canceled)
		assert.Empty(t, ch.msgs)
	})
}

func TestAMQPPublisher_Concurrent(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "x")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(context.Background(), Event{Type: SubscriptionRenewed})
		}()
	}
	wg.Wait()
	assert.Len(t, ch.msgs, 20)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: UserLoggedOut}))
}
