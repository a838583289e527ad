package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// Hub fans change events out to the sessions joined to an organization.
// Membership lives only in memory.
type Hub struct {
	mu       sync.RWMutex
	orgs     map[string]map[*Session]struct{}
	sessions map[*Session]map[string]struct{}

	metrics *Metrics
	logger  zerolog.Logger
}

type HubOption func(*Hub)

func WithMetrics(m *Metrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

func WithLogger(l zerolog.Logger) HubOption {
	return func(h *Hub) { h.logger = l }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		orgs:     make(map[string]map[*Session]struct{}),
		sessions: make(map[*Session]map[string]struct{}),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics(nil)
	}
	return h
}

// Subscribe joins s to orgID. Joining twice is a no-op.
func (h *Hub) Subscribe(s *Session, orgID string) error {
	if orgID == "" {
		return &domain.ValidationError{Field: "organization_id", Message: "is required"}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// Disconnect closes sessions while holding h.mu.
	if s.Closed() {
		return &domain.ValidationError{Field: "session", Message: "is disconnected"}
	}
	members, ok := h.orgs[orgID]
	if !ok {
		members = make(map[*Session]struct{})
		h.orgs[orgID] = members
	}
	if _, joined := members[s]; joined {
		return nil
	}
	members[s] = struct{}{}
	joined, ok := h.sessions[s]
	if !ok {
		joined = make(map[string]struct{})
		h.sessions[s] = joined
		h.metrics.Sessions.Inc()
	}
	joined[orgID] = struct{}{}
	h.metrics.Subscriptions.Inc()
	h.logger.Debug().Str("session_id", s.ID).Str("organization_id", orgID).Msg("session joined")
	return nil
}

// Unsubscribe removes s from orgID. Unknown pairs are ignored.
func (h *Hub) Unsubscribe(s *Session, orgID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s, orgID)
}

// Disconnect removes s from every organization and closes its queue. Safe to
// call more than once.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	for orgID := range h.sessions[s] {
		h.removeLocked(s, orgID)
	}
	s.close()
	h.mu.Unlock()
	h.logger.Debug().Str("session_id", s.ID).Msg("session disconnected")
}

func (h *Hub) removeLocked(s *Session, orgID string) {
	members, ok := h.orgs[orgID]
	if !ok {
		return
	}
	if _, joined := members[s]; !joined {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.orgs, orgID)
	}
	h.metrics.Subscriptions.Dec()
	joined := h.sessions[s]
	delete(joined, orgID)
	if len(joined) == 0 {
		delete(h.sessions, s)
		h.metrics.Sessions.Dec()
	}
}

// Publish offers ev to every session joined to orgID and returns how many
// accepted it. Full or closed queues are skipped silently.
func (h *Hub) Publish(_ context.Context, orgID string, ev domain.ChangeEvent) int {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.orgs[orgID]))
	for s := range h.orgs[orgID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	h.metrics.Published.Inc()
	delivered := 0
	for _, s := range targets {
		if s.offer(ev) {
			delivered++
			h.metrics.Deliveries.WithLabelValues("delivered").Inc()
			continue
		}
		h.metrics.Deliveries.WithLabelValues("missed").Inc()
	}
	return delivered
}

// Subscribers reports how many sessions are joined to orgID.
func (h *Hub) Subscribers(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orgs[orgID])
}

// Organizations lists the organizations s is joined to.
func (h *Hub) Organizations(s *Session) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.sessions[s]))
	for orgID := range h.sessions[s] {
		out = append(out, orgID)
	}
	return out
}
