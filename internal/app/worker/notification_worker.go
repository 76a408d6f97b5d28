package worker

import (
	"context"
	"fmt"
	"time"

	"pinshop/internal/common"
	"pinshop/internal/domain/model"
	"pinshop/internal/platform/logging"
	"pinshop/internal/platform/mail"
	"pinshop/internal/platform/queue"
)

// Consumer is the receiving half of a notification queue.
type Consumer interface {
	Consume(ctx context.Context, h queue.Handler) error
}

// NotificationWorker turns queued credential notifications into mail.
// Delivery is best effort: a failed send is reported to the queue, which
// logs it and moves on.
type NotificationWorker struct {
	consumer    Consumer
	mailer      mail.Mailer
	log         logging.Logger
	sendTimeout time.Duration
}

func NewNotificationWorker(consumer Consumer, mailer mail.Mailer, log logging.Logger, sendTimeout time.Duration) *NotificationWorker {
	return &NotificationWorker{
		consumer:    consumer,
		mailer:      mailer,
		log:         log.With("component", "notification_worker"),
		sendTimeout: sendTimeout,
	}
}

// Start blocks until ctx is cancelled or the queue stops delivering.
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.log.Info(ctx, "notification worker started")
	err := w.consumer.Consume(ctx, w.deliver)
	w.log.Info(ctx, "notification worker stopping")
	return err
}

func (w *NotificationWorker) deliver(ctx context.Context, n model.CredentialsNotification) error {
	ctx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	err := w.mailer.Send(ctx, mail.Message{To: n.To, Subject: n.Subject(), Body: n.Body()})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrNotify, err)
	}
	w.log.Debug(ctx, "credentials mailed", "user_id", n.UserID)
	return nil
}
