package realtime

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/threadlog/internal/domain"
)

func testEvent(orgID, employeeID string, hour int, status domain.Status) domain.ChangeEvent {
	return domain.NewChangeEvent(&domain.WorkLogEntry{
		OrganizationID: orgID,
		EmployeeID:     employeeID,
		Date:           time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Hour:           hour,
		Status:         status,
		UpdatedAt:      time.Now().UTC(),
	})
}

func TestHub_PublishReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	a, b := NewSession(4), NewSession(4)
	require.NoError(t, hub.Subscribe(a, "org-1"))
	require.NoError(t, hub.Subscribe(b, "org-1"))

	ev := testEvent("org-1", "emp-1", 9, domain.StatusCompleted)
	assert.Equal(t, 2, hub.Publish(context.Background(), "org-1", ev))

	assert.Equal(t, ev, <-a.Events())
	assert.Equal(t, ev, <-b.Events())
}

func TestHub_OrganizationIsolation(t *testing.T) {
	hub := NewHub()
	acme, globex := NewSession(4), NewSession(4)
	require.NoError(t, hub.Subscribe(acme, "acme"))
	require.NoError(t, hub.Subscribe(globex, "globex"))

	hub.Publish(context.Background(), "acme", testEvent("acme", "emp-1", 9, domain.StatusCompleted))

	assert.Len(t, acme.Events(), 1)
	assert.Len(t, globex.Events(), 0, "other organizations receive nothing")
}

func TestHub_SubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	s := NewSession(4)
	require.NoError(t, hub.Subscribe(s, "org-1"))
	require.NoError(t, hub.Subscribe(s, "org-1"))
	assert.Equal(t, 1, hub.Subscribers("org-1"))

	hub.Publish(context.Background(), "org-1", testEvent("org-1", "emp-1", 9, domain.StatusBreak))
	assert.Len(t, s.Events(), 1, "no duplicate delivery")
}

func TestHub_SubscribeRejectsEmptyOrganization(t *testing.T) {
	err := NewHub().Subscribe(NewSession(1), "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	s := NewSession(4)
	require.NoError(t, hub.Subscribe(s, "org-1"))
	require.NoError(t, hub.Subscribe(s, "org-2"))

	hub.Unsubscribe(s, "org-1")
	hub.Unsubscribe(s, "never-joined")

	assert.Equal(t, 0, hub.Publish(context.Background(), "org-1", testEvent("org-1", "e", 1, domain.StatusBreak)))
	assert.Equal(t, 1, hub.Publish(context.Background(), "org-2", testEvent("org-2", "e", 1, domain.StatusBreak)))
	assert.Equal(t, []string{"org-2"}, hub.Organizations(s))
}

func TestHub_DisconnectRemovesEverywhereAndClosesOnce(t *testing.T) {
	hub := NewHub()
	s := NewSession(4)
	require.NoError(t, hub.Subscribe(s, "org-1"))
	require.NoError(t, hub.Subscribe(s, "org-2"))

	hub.Disconnect(s)
	hub.Disconnect(s)

	assert.Equal(t, 0, hub.Subscribers("org-1"))
	assert.Equal(t, 0, hub.Subscribers("org-2"))
	assert.Equal(t, 0, hub.Publish(context.Background(), "org-1", testEvent("org-1", "e", 1, domain.StatusBreak)))

	_, open := <-s.Events()
	assert.False(t, open, "queue closed after disconnect")
	require.Error(t, hub.Subscribe(s, "org-1"), "a disconnected session cannot rejoin")
}

func TestHub_FullQueueIsSilentMiss(t *testing.T) {
	metrics := NewMetrics(nil)
	hub := NewHub(WithMetrics(metrics))
	slow, fast := NewSession(1), NewSession(8)
	require.NoError(t, hub.Subscribe(slow, "org-1"))
	require.NoError(t, hub.Subscribe(fast, "org-1"))

	for h := 0; h < 3; h++ {
		hub.Publish(context.Background(), "org-1", testEvent("org-1", "e", h, domain.StatusCompleted))
	}

	assert.Len(t, slow.Events(), 1)
	assert.Len(t, fast.Events(), 3, "a slow session does not hold back others")
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Deliveries.WithLabelValues("missed")))
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.Deliveries.WithLabelValues("delivered")))
}

func TestHub_MetricsTrackMembership(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	hub := NewHub(WithMetrics(metrics))
	s := NewSession(1)

	require.NoError(t, hub.Subscribe(s, "org-1"))
	require.NoError(t, hub.Subscribe(s, "org-2"))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Sessions))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Subscriptions))

	hub.Disconnect(s)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Sessions))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Subscriptions))
}

func TestHub_ConcurrentSubscribePublishDisconnect(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := NewSession(2)
			org := fmt.Sprintf("org-%d", i%3)
			if err := hub.Subscribe(s, org); err != nil {
				t.Errorf("subscribe: %v", err)
				return
			}
			hub.Publish(ctx, org, testEvent(org, "e", i%24, domain.StatusInProgress))
			hub.Disconnect(s)
		}(i)
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			org := fmt.Sprintf("org-%d", i%3)
			for j := 0; j < 20; j++ {
				hub.Publish(ctx, org, testEvent(org, "e", j%24, domain.StatusCompleted))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, hub.Subscribers(fmt.Sprintf("org-%d", i)))
	}
}

func TestHub_SubscribeRacingDisconnectLeavesNothingBehind(t *testing.T) {
	hub := NewHub()

	for i := 0; i < 200; i++ {
		s := NewSession(1)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = hub.Subscribe(s, "org-1")
		}()
		go func() {
			defer wg.Done()
			hub.Disconnect(s)
		}()
		wg.Wait()

		require.True(t, s.Closed())
		require.Empty(t, hub.Organizations(s), "iteration %d", i)
	}
	assert.Equal(t, 0, hub.Subscribers("org-1"))
}
