// Package bootstrap opens the backends selected by configuration and hands
// back the interfaces the services are built on.
package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"pinshop/internal/common/security"
	"pinshop/internal/domain/repository"
	"pinshop/internal/platform/config"
	"pinshop/internal/platform/database"
	"pinshop/internal/platform/logging"
	"pinshop/internal/platform/mail"
	"pinshop/internal/platform/queue"
	"pinshop/internal/platform/session"

	"github.com/redis/go-redis/v9"
)

// Closers releases connections in reverse order of opening.
type Closers []func() error

func (c *Closers) Add(f func() error) { *c = append(*c, f) }

func (c *Closers) CloseAll(log logging.Logger) {
	for i := len(*c) - 1; i >= 0; i-- {
		if err := (*c)[i](); err != nil {
			log.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

// RedisDialer returns the shared Redis client, connecting on first call.
type RedisDialer func(context.Context) (*redis.Client, error)

type Stores struct {
	Accounts repository.AccountRepository
	Products repository.ProductRepository
}

func OpenStores(ctx context.Context, cfg *config.Config, log logging.Logger, deps *Closers) (Stores, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.Connect(ctx, cfg.DBConnStr())
		if err != nil {
			return Stores{}, err
		}
		deps.Add(db.Close)
		if err := database.Migrate(ctx, db); err != nil {
			return Stores{}, err
		}
		return Stores{
			Accounts: repository.NewPgAccountRepository(db),
			Products: repository.NewPgProductRepository(db),
		}, nil

	case config.StoreMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return Stores{}, err
		}
		deps.Add(func() error { return client.Disconnect(context.Background()) })
		return Stores{
			Accounts: repository.NewMongoAccountRepository(db),
			Products: repository.NewMongoProductRepository(db),
		}, nil
	}

	log.Warn(ctx, "using in-memory store, data is lost on restart")
	return Stores{
		Accounts: repository.NewMemoryAccountRepository(),
		Products: repository.NewMemoryProductRepository(),
	}, nil
}

// LazyRedis dials Redis on first use so deployments that need neither Redis
// sessions nor the Redis queue never touch it.
func LazyRedis(cfg *config.Config, deps *Closers) RedisDialer {
	var (
		once   sync.Once
		client *redis.Client
		err    error
	)
	return func(ctx context.Context) (*redis.Client, error) {
		once.Do(func() {
			client, err = queue.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			if err == nil {
				deps.Add(client.Close)
			}
		})
		return client, err
	}
}

func OpenSessions(ctx context.Context, cfg *config.Config, rdb RedisDialer) (security.SessionStore, error) {
	if cfg.SessionBackend == config.SessionRedis {
		client, err := rdb(ctx)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, cfg.SessionTTL), nil
	}
	return security.NewJWTSessionStore([]byte(cfg.JWTSecret), cfg.SessionTTL), nil
}

// OpenQueue returns the notification queue. The inline backend only works
// when producer and consumer share a process.
func OpenQueue(
	ctx context.Context,
	cfg *config.Config,
	log logging.Logger,
	rdb RedisDialer,
	deps *Closers,
) (queue.NotificationQueue, error) {
	switch cfg.QueueBackend {
	case config.QueueRedis:
		client, err := rdb(ctx)
		if err != nil {
			return nil, err
		}
		return queue.NewRedisQueue(client, cfg.NotifyQueueName, log), nil

	case config.QueueAMQP:
		q, err := queue.NewAMQPQueue(cfg.AMQPURL, cfg.AMQPExchange, cfg.NotifyQueueName, log)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		deps.Add(q.Close)
		return q, nil
	}
	return queue.NewChannelQueue(256, log), nil
}

// NewMailer falls back to logging when no SMTP relay is configured.
func NewMailer(cfg *config.Config, log logging.Logger) mail.Mailer {
	if cfg.SMTPHost == "" {
		return mail.NewLogMailer(log)
	}
	return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailSender())
}
