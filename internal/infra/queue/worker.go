package queue

import (
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/infra/http/middleware"
)

// PartnerNotifier delivers the lead summary to the partner's contact
// address. Delivery is best effort and never touches the lead record.
type PartnerNotifier interface {
	SendLeadNotification(n LeadNotification) error
}

type Worker struct {
	Channel     *amqp.Channel
	Notifier    PartnerNotifier
	Log         *zap.Logger
	MaxAttempts int
	Backoff     time.Duration
}

func NewWorker(ch *amqp.Channel, notifier PartnerNotifier, log *zap.Logger) *Worker {
	return &Worker{
		Channel:     ch,
		Notifier:    notifier,
		Log:         log,
		MaxAttempts: 3,
		Backoff:     time.Second,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack: manual so failed deliveries can dead-letter
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		w.Log.Fatal("failed to register notification consumer", zap.Error(err))
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadNotification
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				w.Log.Error("malformed notification message", zap.Error(err))
				// Poison message: reject without requeue so it dead-letters.
				d.Nack(false, false)
				continue
			}

			if err := w.deliver(payload); err != nil {
				w.Log.Error("notification delivery failed, dead-lettering",
					zap.String("lead_id", payload.LeadID),
					zap.String("partner_email", payload.PartnerEmail),
					zap.Int("attempts", w.MaxAttempts),
					zap.Error(err),
				)
				middleware.RecordNotificationFailure()
				d.Nack(false, false)
			} else {
				w.Log.Info("partner notified",
					zap.String("lead_id", payload.LeadID),
					zap.String("site_slug", payload.SiteSlug),
					zap.String("partner_id", payload.PartnerID),
				)
				d.Ack(false)
			}
		}
	}()

	w.Log.Info("notification worker consuming", zap.String("queue", queueName))
	<-forever
}

// deliver retries with doubling backoff. After MaxAttempts the message
// is given up on; the caller dead-letters it and the lead stays routed.
func (w *Worker) deliver(payload LeadNotification) error {
	var lastErr error
	backoff := w.Backoff

	for attempt := 1; attempt <= w.MaxAttempts; attempt++ {
		lastErr = w.Notifier.SendLeadNotification(payload)
		if lastErr == nil {
			return nil
		}

		w.Log.Warn("notification attempt failed",
			zap.String("lead_id", payload.LeadID),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if attempt < w.MaxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	return lastErr
}
