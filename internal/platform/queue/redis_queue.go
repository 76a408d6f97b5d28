package queue

import (
	"context"
	"errors"
	"time"

	"pinshop/internal/domain/model"
	"pinshop/internal/platform/logging"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a Redis list: LPUSH to publish, BRPOP to consume.
type RedisQueue struct {
	rdb          *redis.Client
	name         string
	log          logging.Logger
	pollTimeout  time.Duration
	retryBackoff time.Duration
}

func NewRedisQueue(rdb *redis.Client, name string, log logging.Logger) *RedisQueue {
	return &RedisQueue{
		rdb:          rdb,
		name:         name,
		log:          log.With("queue", name),
		pollTimeout:  time.Second,
		retryBackoff: 2 * time.Second,
	}
}

func (q *RedisQueue) Publish(ctx context.Context, n model.CredentialsNotification) error {
	b, err := encode(n)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.name, b).Err()
}

func (q *RedisQueue) Consume(ctx context.Context, h Handler) error {
	q.log.Info(ctx, "consuming notification queue")
	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := q.rdb.BRPop(ctx, q.pollTimeout, q.name).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // poll timeout, nothing queued
			}
			if ctx.Err() != nil {
				return nil
			}
			q.log.Error(ctx, "BRPOP failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(q.retryBackoff):
			}
			continue
		}

		// res is [queueName, value]
		if len(res) < 2 {
			continue
		}
		n, err := decode([]byte(res[1]))
		if err != nil {
			q.log.Warn(ctx, "dropping malformed notification", "error", err)
			continue
		}
		if err := h(ctx, n); err != nil {
			q.log.Error(ctx, "notification handler failed", "user_id", n.UserID, "error", err)
		}
	}
}
