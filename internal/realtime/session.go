package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// DefaultQueueSize bounds each session's outbound queue.
const DefaultQueueSize = 64

// Session is one connected client. Events queued for it are drained by the
// transport; once closed it accepts nothing further.
type Session struct {
	ID string

	mu     sync.RWMutex
	closed bool
	out    chan domain.ChangeEvent
}

func NewSession(queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Session{
		ID:  uuid.New().String(),
		out: make(chan domain.ChangeEvent, queueSize),
	}
}

// Events is closed after the session is disconnected.
func (s *Session) Events() <-chan domain.ChangeEvent {
	return s.out
}

// offer queues ev without blocking. It reports false when the queue is full
// or the session is closed.
func (s *Session) offer(ev domain.ChangeEvent) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.out <- ev:
		return true
	default:
		return false
	}
}

// close is idempotent.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
