package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadNotification is published when the routing engine marks a lead as
// routed. The worker consumes it and notifies the assigned partner.
type LeadNotification struct {
	LeadID       string    `json:"lead_id"`
	SiteSlug     string    `json:"site_slug"`
	Niche        string    `json:"niche"`
	City         string    `json:"city"`
	PartnerID    string    `json:"partner_id"`
	PartnerEmail string    `json:"partner_email"`
	LeadName     string    `json:"lead_name"`
	LeadPhone    string    `json:"lead_phone"`
	LeadEmail    string    `json:"lead_email,omitempty"`
	Service      string    `json:"service,omitempty"`
	Message      string    `json:"message,omitempty"`
	ReceivedAt   time.Time `json:"received_at"`
}

type NotificationProducerInterface interface {
	PublishLeadRouted(ctx context.Context, payload LeadNotification) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadRouted(ctx context.Context, payload LeadNotification) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
