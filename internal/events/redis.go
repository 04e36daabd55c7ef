package events

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// RedisPublisher publishes JSON encoded events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return eris.Wrapf(err, "encode %s event", e.Kind)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return eris.Wrapf(err, "publish %s event to %s", e.Kind, p.channel)
	}
	return nil
}

// Decode parses a payload produced by RedisPublisher. Data is left as a
// generic JSON value.
func Decode(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, eris.Wrap(err, "decode event")
	}
	return e, nil
}
