package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/threadlog/internal/config"
	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/realtime"
)

// bridgeNotifier forwards change events from command-line writes to the
// configured bridge. It dials on first use, so commands that never write
// never connect. Failures are logged and the write still stands.
type bridgeNotifier struct {
	cfg config.BridgeConfig
	log zerolog.Logger

	once  sync.Once
	relay *realtime.Relay
}

func newBridgeNotifier(cfg config.BridgeConfig, log zerolog.Logger) *bridgeNotifier {
	return &bridgeNotifier{cfg: cfg, log: log.With().Str("component", "bridge-notifier").Logger()}
}

func (n *bridgeNotifier) Publish(ctx context.Context, orgID string, ev domain.ChangeEvent) int {
	n.once.Do(func() { n.relay = n.dial(ctx) })
	if n.relay == nil {
		return 0
	}
	return n.relay.Publish(ctx, orgID, ev)
}

func (n *bridgeNotifier) dial(ctx context.Context) *realtime.Relay {
	var (
		bridge realtime.Bridge
		err    error
	)
	switch n.cfg.Kind {
	case config.BridgeNATS:
		bridge, err = realtime.DialNATS(n.cfg.URL, n.log)
	case config.BridgeRedis:
		bridge, err = realtime.DialRedis(ctx, n.cfg.URL, n.log)
	default:
		// No bridge, or one that only lives inside the server process.
		return nil
	}
	if err != nil {
		n.log.Warn().Err(err).Str("kind", n.cfg.Kind).Msg("bridge unavailable; update not announced")
		return nil
	}
	return realtime.NewRelay(realtime.NewHub(), bridge, n.log)
}

func (n *bridgeNotifier) Close() {
	if n.relay != nil {
		_ = n.relay.Close()
	}
}
