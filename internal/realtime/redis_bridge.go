package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisPattern = "threadlog:org:*:worklog"

// RedisChannel is the pub/sub channel events for orgID are published on.
func RedisChannel(orgID string) string {
	return "threadlog:org:" + subjectToken(orgID) + ":worklog"
}

// RedisBridge fans envelopes out over Redis pub/sub.
type RedisBridge struct {
	client *redis.Client
	owned  bool
	logger zerolog.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewRedisBridge wraps a caller-owned client. Close leaves the client open.
func NewRedisBridge(client *redis.Client, logger zerolog.Logger) *RedisBridge {
	return &RedisBridge{client: client, logger: logger}
}

// DialRedis parses a redis:// URL and returns a bridge that owns the client.
func DialRedis(ctx context.Context, url string, logger zerolog.Logger) (*RedisBridge, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	b := NewRedisBridge(client, logger)
	b.owned = true
	return b, nil
}

func (b *RedisBridge) Publish(ctx context.Context, env Envelope) error {
	data, err := encodeEnvelope(env)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, RedisChannel(env.Event.OrganizationID), data).Err(); err != nil {
		return fmt.Errorf("publishing to redis: %w", err)
	}
	return nil
}

func (b *RedisBridge) Subscribe(ctx context.Context, fn func(Envelope)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pubsub != nil {
		return fmt.Errorf("redis bridge already subscribed")
	}
	ps := b.client.PSubscribe(ctx, redisPattern)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return fmt.Errorf("subscribing to %s: %w", redisPattern, err)
	}
	b.pubsub = ps
	b.done = make(chan struct{})
	go b.drain(ps.Channel(), fn, b.done)
	return nil
}

func (b *RedisBridge) drain(ch <-chan *redis.Message, fn func(Envelope), done chan struct{}) {
	defer close(done)
	for msg := range ch {
		env, err := decodeEnvelope([]byte(msg.Payload))
		if err != nil {
			b.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed envelope")
			continue
		}
		fn(env)
	}
}

func (b *RedisBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var err error
	if b.pubsub != nil {
		err = b.pubsub.Close()
		<-b.done
		b.pubsub = nil
	}
	if b.owned {
		if cerr := b.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
