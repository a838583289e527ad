package realtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// Relay publishes to the local hub and mirrors events through a Bridge so
// sessions held by other processes see them too.
type Relay struct {
	hub        *Hub
	bridge     Bridge
	instanceID string
	logger     zerolog.Logger
}

func NewRelay(hub *Hub, bridge Bridge, logger zerolog.Logger) *Relay {
	return &Relay{
		hub:        hub,
		bridge:     bridge,
		instanceID: uuid.New().String(),
		logger:     logger.With().Str("component", "relay").Logger(),
	}
}

func (r *Relay) InstanceID() string { return r.instanceID }

// Start begins consuming remote envelopes.
func (r *Relay) Start(ctx context.Context) error {
	return r.bridge.Subscribe(ctx, r.receive)
}

func (r *Relay) receive(env Envelope) {
	if env.InstanceID == r.instanceID {
		return
	}
	r.hub.Publish(context.Background(), env.Event.OrganizationID, env.Event)
}

// Publish delivers locally first. Bridge failures are logged and counted;
// local subscribers are unaffected.
func (r *Relay) Publish(ctx context.Context, orgID string, ev domain.ChangeEvent) int {
	n := r.hub.Publish(ctx, orgID, ev)
	if err := r.bridge.Publish(ctx, Envelope{InstanceID: r.instanceID, Event: ev}); err != nil {
		r.hub.metrics.BridgeErrors.WithLabelValues("publish").Inc()
		r.logger.Warn().Err(err).Str("organization_id", orgID).Msg("bridge publish failed")
	}
	return n
}

func (r *Relay) Close() error {
	return r.bridge.Close()
}
