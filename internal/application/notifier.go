package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderly/tours-api/pkg/helpers"
	"github.com/wanderly/tours-api/pkg/mailer"
)

// QueueNotifier publishes reset emails to the durable email queue; the
// email worker picks them up and delivers via Mailgun. When sending is
// disabled (local development) jobs are logged and dropped.
type QueueNotifier struct {
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger
	Enabled bool
}

func NewQueueNotifier(pub *helpers.RabbitPublisher, logger *logrus.Logger, enabled bool) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Logger: logger, Enabled: enabled}
}

func (n *QueueNotifier) SendPasswordReset(ctx context.Context, to, name, resetURL string, expiresIn time.Duration) error {
	if !n.Enabled || n.Pub == nil {
		n.Logger.WithField("to", to).Info("mail sending disabled; dropping reset email")
		return nil
	}
	job := mailer.NewPasswordResetJob(to, name, resetURL, expiresIn)
	return n.Pub.PublishJSON(ctx, job)
}

var _ Notifier = (*QueueNotifier)(nil)
