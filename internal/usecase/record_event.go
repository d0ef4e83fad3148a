package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/localauthority/leadengine/internal/entity"
)

type RecordEventInput struct {
	SiteSlug    string    `json:"-"`
	Type        string    `json:"type"` // revenue or cost
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RecordEventUseCase appends revenue/cost events for the ROI tracker.
// The site must exist; events against deactivated sites are still
// accepted, late invoices and refunds arrive after shutdown.
type RecordEventUseCase struct {
	SiteRepo   SiteRepositoryInterface
	LedgerRepo LedgerRepositoryInterface
}

func NewRecordEventUseCase(siteRepo SiteRepositoryInterface, ledgerRepo LedgerRepositoryInterface) *RecordEventUseCase {
	return &RecordEventUseCase{SiteRepo: siteRepo, LedgerRepo: ledgerRepo}
}

func (uc *RecordEventUseCase) Execute(ctx context.Context, input RecordEventInput) (*entity.LedgerEvent, error) {
	if _, err := uc.SiteRepo.FindBySlug(ctx, input.SiteSlug); err != nil {
		if errors.Is(err, entity.ErrUnknownSite) {
			return nil, &DomainError{Code: CodeUnknownSite, Message: "site not found: " + input.SiteSlug}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "site lookup failed: " + err.Error()}
	}

	event, err := entity.NewLedgerEvent(input.SiteSlug, entity.LedgerEventType(input.Type), input.AmountCents, input.OccurredAt)
	if err != nil {
		return nil, &DomainError{Code: CodeInvalidEvent, Message: err.Error()}
	}

	if err := uc.LedgerRepo.Append(ctx, event); err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to append ledger event: " + err.Error()}
	}

	return event, nil
}
