package entity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PricingModel string

const (
	PricingPayPerLead   PricingModel = "pay_per_lead"
	PricingSubscription PricingModel = "subscription"
)

// Partner is a local service provider that receives routed leads from
// one or more Sites. Capacity, when set, caps the number of leads
// routed to the partner within a rolling 30-day window.
type Partner struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ContactEmail string       `json:"contact_email"`
	PricingModel PricingModel `json:"pricing_model"`
	Capacity     *int         `json:"capacity,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func NewPartner(name, contactEmail string, pricingModel PricingModel, capacity *int) (*Partner, error) {
	partner := &Partner{
		ID:           uuid.New().String(),
		Name:         name,
		ContactEmail: contactEmail,
		PricingModel: pricingModel,
		Capacity:     capacity,
		CreatedAt:    time.Now(),
	}

	if err := partner.Validate(); err != nil {
		return nil, err
	}

	return partner, nil
}

func (p *Partner) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidPartner
	}
	if _, err := mail.ParseAddress(p.ContactEmail); err != nil {
		return ErrInvalidPartner
	}
	if p.PricingModel != PricingPayPerLead && p.PricingModel != PricingSubscription {
		return ErrInvalidPricingModel
	}
	if p.Capacity != nil && *p.Capacity < 1 {
		return ErrInvalidPartner
	}
	return nil
}
