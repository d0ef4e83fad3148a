package entity

import (
	"time"

	"github.com/google/uuid"
)

type LedgerEventType string

const (
	LedgerEventRevenue LedgerEventType = "revenue"
	LedgerEventCost    LedgerEventType = "cost"
)

// LedgerEvent records one revenue or cost amount against a Site. The ROI
// tracker sums these per site when deciding on deactivation.
type LedgerEvent struct {
	ID          string          `json:"id"`
	SiteSlug    string          `json:"site_slug"`
	Type        LedgerEventType `json:"type"`
	AmountCents int64           `json:"amount_cents"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func NewLedgerEvent(siteSlug string, eventType LedgerEventType, amountCents int64, occurredAt time.Time) (*LedgerEvent, error) {
	if eventType != LedgerEventRevenue && eventType != LedgerEventCost {
		return nil, ErrInvalidLedgerEvent
	}
	if amountCents <= 0 {
		return nil, ErrInvalidLedgerEvent
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &LedgerEvent{
		ID:          uuid.New().String(),
		SiteSlug:    siteSlug,
		Type:        eventType,
		AmountCents: amountCents,
		OccurredAt:  occurredAt,
	}, nil
}

// SignedCents is positive for revenue and negative for cost.
func (e *LedgerEvent) SignedCents() int64 {
	if e.Type == LedgerEventCost {
		return -e.AmountCents
	}
	return e.AmountCents
}
