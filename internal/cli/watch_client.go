package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/alexanderramin/threadlog/internal/domain"
)

type watchKind int

const (
	watchConnected watchKind = iota
	watchJoined
	watchEvent
	watchRefused
	watchRetrying
)

// watchUpdate is one thing the live view should show.
type watchUpdate struct {
	kind  watchKind
	orgID string
	event *domain.ChangeEvent
	err   error
	delay time.Duration
}

type socketMessage struct {
	Type           string              `json:"type"`
	OrganizationID string              `json:"organization_id,omitempty"`
	Event          *domain.ChangeEvent `json:"event,omitempty"`
	Error          string              `json:"error,omitempty"`
	Code           string              `json:"code,omitempty"`
}

// watchClient holds one websocket subscription open, reconnecting with
// exponential backoff until its context ends or the server refuses it.
type watchClient struct {
	url   string
	token string
	orgID string

	dialer     *websocket.Dialer
	newBackOff func() backoff.BackOff
}

func newWatchClient(server, token, orgID string) (*watchClient, error) {
	wsURL, err := socketURL(server)
	if err != nil {
		return nil, err
	}
	return &watchClient{
		url:    wsURL,
		token:  token,
		orgID:  orgID,
		dialer: websocket.DefaultDialer,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}, nil
}

// socketURL maps an http(s) server address to its /ws endpoint.
func socketURL(server string) (string, error) {
	u, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("server url %q must use http or https", server)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Run returns when ctx is done or the server permanently refuses the client.
// updates is closed on return.
func (c *watchClient) Run(ctx context.Context, updates chan<- watchUpdate) error {
	defer close(updates)

	bo := c.newBackOff()
	op := func() error {
		err := c.session(ctx, bo, updates)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, d time.Duration) {
		emit(ctx, updates, watchUpdate{kind: watchRetrying, err: err, delay: d})
	}

	err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// session runs one connection until it fails.
func (c *watchClient) session(ctx context.Context, bo backoff.BackOff, updates chan<- watchUpdate) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)
	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			refused := fmt.Errorf("server refused the token (%s)", resp.Status)
			emit(ctx, updates, watchUpdate{kind: watchRefused, err: refused})
			return backoff.Permanent(refused)
		}
		return fmt.Errorf("dialing %s: %w", c.url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	emit(ctx, updates, watchUpdate{kind: watchConnected})
	if err := conn.WriteJSON(socketMessage{Type: "join", OrganizationID: c.orgID}); err != nil {
		return fmt.Errorf("sending join: %w", err)
	}

	for {
		var msg socketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("reading: %w", err)
		}
		switch msg.Type {
		case "joined":
			bo.Reset()
			emit(ctx, updates, watchUpdate{kind: watchJoined, orgID: msg.OrganizationID})
		case domain.EventWorkLogUpdated:
			if msg.Event != nil {
				emit(ctx, updates, watchUpdate{kind: watchEvent, event: msg.Event})
			}
		case "error":
			refused := fmt.Errorf("join refused: %s", msg.Error)
			emit(ctx, updates, watchUpdate{kind: watchRefused, err: refused})
			return backoff.Permanent(refused)
		}
	}
}

func emit(ctx context.Context, updates chan<- watchUpdate, u watchUpdate) {
	select {
	case updates <- u:
	case <-ctx.Done():
	}
}
