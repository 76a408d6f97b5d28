package queue

import (
	"context"

	"pinshop/internal/domain/model"
	"pinshop/internal/platform/logging"
)

// ChannelQueue is an in-process buffered queue for deployments without a
// broker. Messages still queued at shutdown are lost.
type ChannelQueue struct {
	ch  chan model.CredentialsNotification
	log logging.Logger
}

func NewChannelQueue(size int, log logging.Logger) *ChannelQueue {
	return &ChannelQueue{ch: make(chan model.CredentialsNotification, size), log: log}
}

func (q *ChannelQueue) Publish(ctx context.Context, n model.CredentialsNotification) error {
	select {
	case q.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChannelQueue) Consume(ctx context.Context, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-q.ch:
			if err := h(ctx, n); err != nil {
				q.log.Error(ctx, "notification handler failed", "user_id", n.UserID, "error", err)
			}
		}
	}
}
