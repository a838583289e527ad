package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const natsWildcard = "threadlog.org.*.worklog"

// NATSSubject is the subject events for orgID are published on.
func NATSSubject(orgID string) string {
	return "threadlog.org." + subjectToken(orgID) + ".worklog"
}

// NATSBridge fans envelopes out over core NATS subjects.
type NATSBridge struct {
	conn   *nats.Conn
	owned  bool
	logger zerolog.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewNATSBridge uses an existing connection. Close leaves it open.
func NewNATSBridge(conn *nats.Conn, logger zerolog.Logger) *NATSBridge {
	return &NATSBridge{conn: conn, logger: logger}
}

// DialNATS connects to url and returns a bridge that owns the connection.
func DialNATS(url string, logger zerolog.Logger) (*NATSBridge, error) {
	conn, err := nats.Connect(url,
		nats.Name("threadlog"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSBridge{conn: conn, owned: true, logger: logger}, nil
}

func (b *NATSBridge) Publish(_ context.Context, env Envelope) error {
	data, err := encodeEnvelope(env)
	if err != nil {
		return err
	}
	if err := b.conn.Publish(NATSSubject(env.Event.OrganizationID), data); err != nil {
		return fmt.Errorf("publishing to NATS: %w", err)
	}
	return nil
}

func (b *NATSBridge) Subscribe(_ context.Context, fn func(Envelope)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		return fmt.Errorf("NATS bridge already subscribed")
	}
	sub, err := b.conn.Subscribe(natsWildcard, func(msg *nats.Msg) {
		env, err := decodeEnvelope(msg.Data)
		if err != nil {
			b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping malformed envelope")
			return
		}
		fn(env)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", natsWildcard, err)
	}
	// The server must know about the subscription before Subscribe returns.
	if err := b.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("flushing NATS subscription: %w", err)
	}
	b.sub = sub
	return nil
}

func (b *NATSBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
		b.sub = nil
	}
	if b.owned {
		b.conn.Close()
	}
	return nil
}
