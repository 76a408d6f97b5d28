package queue

import (
	"context"
	"testing"

	"pinshop/internal/domain/model"
	"pinshop/internal/platform/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelQueue_PublishConsume(t *testing.T) {
	q := NewChannelQueue(4, logging.Discard())
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, model.CredentialsNotification{UserID: "ID000001"}))
	require.NoError(t, q.Publish(ctx, model.CredentialsNotification{UserID: "ID000002"}))

	got := consumeN(t, q, 2, nil)
	assert.Equal(t, "ID000001", got[0].UserID)
	assert.Equal(t, "ID000002", got[1].UserID)
}

func TestChannelQueue_PublishRespectsContextWhenFull(t *testing.T) {
	q := NewChannelQueue(1, logging.Discard())
	require.NoError(t, q.Publish(context.Background(), model.CredentialsNotification{UserID: "ID000001"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Publish(ctx, model.CredentialsNotification{UserID: "ID000002"})
	assert.ErrorIs(t, err, context.Canceled)
}
