// Package queue carries credential notifications from registration to the
// delivery worker. Every backend is at-most-once: a message whose handler
// fails is logged and dropped.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"pinshop/internal/domain/model"
)

// Handler processes one notification taken off the queue.
type Handler func(ctx context.Context, n model.CredentialsNotification) error

type NotificationQueue interface {
	Publish(ctx context.Context, n model.CredentialsNotification) error
	// Consume blocks, feeding messages to h until ctx is done.
	Consume(ctx context.Context, h Handler) error
}

func encode(n model.CredentialsNotification) ([]byte, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}
	return b, nil
}

func decode(b []byte) (model.CredentialsNotification, error) {
	var n model.CredentialsNotification
	if err := json.Unmarshal(b, &n); err != nil {
		return n, fmt.Errorf("decode payload failed: %w", err)
	}
	return n, nil
}
