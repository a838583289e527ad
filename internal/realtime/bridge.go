package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// Envelope is the cross-process wire form of a change event. InstanceID names
// the publishing process so it can drop its own echo.
type Envelope struct {
	InstanceID string             `json:"instance_id"`
	Event      domain.ChangeEvent `json:"event"`
}

// Bridge carries envelopes between threadlog processes.
type Bridge interface {
	Publish(ctx context.Context, env Envelope) error
	// Subscribe starts delivering every envelope to fn. fn runs on the
	// bridge's goroutine and must not block for long.
	Subscribe(ctx context.Context, fn func(Envelope)) error
	Close() error
}

func encodeEnvelope(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return data, nil
}

func decodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Event.OrganizationID == "" {
		return Envelope{}, fmt.Errorf("decoding envelope: missing organization_id")
	}
	return env, nil
}

var subjectReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_", ":", "_")

// subjectToken makes orgID safe as a single NATS subject token or Redis
// channel segment.
func subjectToken(orgID string) string {
	return subjectReplacer.Replace(orgID)
}
