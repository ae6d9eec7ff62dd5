package authtoken

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisTransport broadcasts token messages over a redis pub/sub channel so
// every gateway process of the same operator converges on one session.
// Messages are not persisted; a context that subscribes late only learns the
// token from durable storage.
type RedisTransport struct {
	rdb     *redis.Client
	channel string
}

func NewRedisTransport(rdb *redis.Client, channel string) *RedisTransport {
	if channel == "" {
		channel = Channel
	}
	return &RedisTransport{rdb: rdb, channel: channel}
}

func (t *RedisTransport) Publish(ctx context.Context, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return t.rdb.Publish(ctx, t.channel, payload).Err()
}

func (t *RedisTransport) Subscribe(ctx context.Context, fn func(Message)) error {
	sub := t.rdb.Subscribe(ctx, t.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				// Foreign traffic on the channel is dropped, not fatal.
				continue
			}
			fn(m)
		}
	}
}
