package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(10, nil)
	require.NoError(t, err)
	b, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.Connections(10))

	hub.UnregisterClient(a)
	hub.UnregisterClient(a)
	assert.Equal(t, 1, hub.Connections(10))

	hub.UnregisterClient(b)
	assert.Equal(t, 0, hub.Connections(10))
}

func TestHub_PerUserLimit(t *testing.T) {
	hub := NewHub()
	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(1, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(1, nil)
	assert.Error(t, err)
	_ = hub.Shutdown(context.Background())
}

func TestHub_BroadcastOnlyTargetsUser(t *testing.T) {
	hub := NewHub()
	mine, _ := hub.Register(1, nil)
	other, _ := hub.Register(2, nil)

	hub.Broadcast(1, "hello")

	assert.Equal(t, []byte("hello"), <-mine.Send)
	assert.Len(t, other.Send, 0)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, _ := hub.Register(1, nil)
	for i := 0; i < cap(c.Send)+5; i++ {
		c.TrySend([]byte("x"))
	}
	assert.Len(t, c.Send, cap(c.Send))
}

func TestHub_StartWiringForwardsRedisMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	client, err := hub.Register(5, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, n))

	require.NoError(t, n.PublishUser(context.Background(), 5, `{"type":"moderation"}`))

	select {
	case msg := <-client.Send:
		assert.JSONEq(t, `{"type":"moderation"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("message was not forwarded to the client")
	}
}
