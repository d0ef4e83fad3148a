package entity

import (
	"time"

	"github.com/google/uuid"
)

type RoutingStatus string

const (
	RoutingStatusUnrouted           RoutingStatus = "unrouted"
	RoutingStatusRouted             RoutingStatus = "routed"
	RoutingStatusFlaggedForOutreach RoutingStatus = "flagged_for_outreach"
)

// Lead is an immutable contact submission captured on a Site. Only
// RoutingStatus changes after storage, and only once: unrouted moves to
// routed or flagged_for_outreach and never reverts.
type Lead struct {
	ID            string        `json:"id"`
	SiteSlug      string        `json:"site_slug"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email,omitempty"`
	Service       string        `json:"service,omitempty"`
	Message       string        `json:"message,omitempty"`
	RoutingStatus RoutingStatus `json:"routing_status"`
	ReceivedAt    time.Time     `json:"received_at"`
}

// NewLead stamps ReceivedAt with the store's acceptance time, never a
// client-submitted timestamp.
func NewLead(siteSlug, name, phone, email, service, message string) *Lead {
	return &Lead{
		ID:            uuid.New().String(),
		SiteSlug:      siteSlug,
		Name:          name,
		Phone:         phone,
		Email:         email,
		Service:       service,
		Message:       message,
		RoutingStatus: RoutingStatusUnrouted,
		ReceivedAt:    time.Now(),
	}
}

func (l *Lead) MarkRouted() error {
	if l.RoutingStatus != RoutingStatusUnrouted {
		return ErrLeadAlreadyRouted
	}
	l.RoutingStatus = RoutingStatusRouted
	return nil
}

func (l *Lead) FlagForOutreach() error {
	if l.RoutingStatus != RoutingStatusUnrouted {
		return ErrLeadAlreadyRouted
	}
	l.RoutingStatus = RoutingStatusFlaggedForOutreach
	return nil
}
