package events

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uzochukwuV/massabeam/internal/logging"
)

func TestRedisPublisher_DeliversJSON(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	sub := client.Subscribe(ctx, "battles")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client, "battles")
	at := time.Unix(1_700_000_000, 0).UTC()
	require.NoError(t, pub.Publish(ctx, Event{
		Kind:     KindTurnResolved,
		BattleID: 7,
		At:       at,
		Data:     map[string]interface{}{"damage": 5},
	}))

	select {
	case msg := <-sub.Channel():
		e, err := Decode([]byte(msg.Payload))
		require.NoError(t, err)
		assert.Equal(t, KindTurnResolved, e.Kind)
		assert.Equal(t, uint(7), e.BattleID)
		assert.True(t, at.Equal(e.At))
		assert.Equal(t, map[string]interface{}{"damage": float64(5)}, e.Data)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no message received")
	}
}

func TestRedisPublisher_ServerDown(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	defer client.Close()
	srv.Close()

	err := NewRedisPublisher(client, "battles").Publish(context.Background(), Event{Kind: KindBattleEnded})
	require.Error(t, err)
}

func TestHub_PerBattleDelivery(t *testing.T) {
	h := NewHub()
	ch1, cancel1 := h.Subscribe(1)
	ch2, cancel2 := h.Subscribe(2)
	defer cancel2()

	require.NoError(t, h.Publish(context.Background(), Event{Kind: KindTurnResolved, BattleID: 1}))
	select {
	case e := <-ch1:
		assert.Equal(t, uint(1), e.BattleID)
	default:
		require.FailNow(t, "subscriber of battle 1 got nothing")
	}
	select {
	case <-ch2:
		require.FailNow(t, "subscriber of battle 2 got an event for battle 1")
	default:
	}

	cancel1()
	cancel1()
	_, open := <-ch1
	assert.False(t, open)
	assert.Zero(t, h.Subscribers(1))
	assert.Equal(t, 1, h.Subscribers(2))
}

func TestHub_DropsForSlowSubscribers(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe(1)
	defer cancel()
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, h.Publish(context.Background(), Event{Kind: KindTurnResolved, BattleID: 1}))
	}
}

type failing struct{}

func (failing) Publish(context.Context, Event) error { return errors.New("boom") }

func TestMulti_PublishesToAll(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe(3)
	defer cancel()

	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stdout)

	err := Multi{failing{}, LogPublisher{}, nil, h}.Publish(context.Background(), Event{Kind: KindDamageClamped, BattleID: 3})
	require.Error(t, err)
	assert.Len(t, ch, 1)
	assert.Contains(t, buf.String(), `"event":"damage_clamped"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
