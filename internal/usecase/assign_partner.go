package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/entity"
	"github.com/localauthority/leadengine/internal/infra/billing"
)

type CreatePartnerInput struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	PricingModel string `json:"pricing_model"`
	Capacity     *int   `json:"capacity,omitempty"`
}

type AssignPartnerInput struct {
	SiteSlug    string `json:"-"`
	PartnerID   string `json:"partner_id"`
	AmountCents int64  `json:"amount_cents"`
	Period      string `json:"period"`
}

type AssignPartnerOutput struct {
	SiteSlug   string `json:"site_slug"`
	PartnerID  string `json:"partner_id"`
	BillingRef string `json:"billing_ref"`
}

// AssignPartnerUseCase is the admin/onboarding flow: it records the
// partner on the site and opens the first charge with the invoicing
// provider according to the accepted pricing model.
type AssignPartnerUseCase struct {
	SiteRepo    SiteRepositoryInterface
	PartnerRepo PartnerRepositoryInterface
	Billing     BillingGateway
	Log         *zap.Logger
}

func NewAssignPartnerUseCase(
	siteRepo SiteRepositoryInterface,
	partnerRepo PartnerRepositoryInterface,
	billingGateway BillingGateway,
	log *zap.Logger,
) *AssignPartnerUseCase {
	return &AssignPartnerUseCase{
		SiteRepo:    siteRepo,
		PartnerRepo: partnerRepo,
		Billing:     billingGateway,
		Log:         log,
	}
}

func (uc *AssignPartnerUseCase) CreatePartner(ctx context.Context, input CreatePartnerInput) (*entity.Partner, error) {
	partner, err := entity.NewPartner(input.Name, input.ContactEmail, entity.PricingModel(input.PricingModel), input.Capacity)
	if err != nil {
		return nil, &DomainError{Code: CodeInvalidPartner, Message: err.Error()}
	}

	if err := uc.PartnerRepo.Create(ctx, partner); err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to create partner: " + err.Error()}
	}

	return partner, nil
}

func (uc *AssignPartnerUseCase) Execute(ctx context.Context, input AssignPartnerInput) (*AssignPartnerOutput, error) {
	site, err := uc.SiteRepo.FindBySlug(ctx, input.SiteSlug)
	if err != nil {
		if errors.Is(err, entity.ErrUnknownSite) {
			return nil, &DomainError{Code: CodeUnknownSite, Message: "site not found: " + input.SiteSlug}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "site lookup failed: " + err.Error()}
	}

	if site.IsDeactivated() {
		return nil, &DomainError{Code: CodeSiteDeactivated, Message: "cannot assign a partner to a deactivated site"}
	}

	partner, err := uc.PartnerRepo.FindByID(ctx, input.PartnerID)
	if err != nil {
		if errors.Is(err, entity.ErrPartnerNotFound) {
			return nil, &DomainError{Code: CodePartnerNotFound, Message: "partner not found: " + input.PartnerID}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "partner lookup failed: " + err.Error()}
	}

	period := input.Period
	if period == "" {
		period = "MONTHLY"
	}

	billingRef, err := uc.Billing.CreateCharge(billing.CreateChargeInput{
		PartnerID:    partner.ID,
		PartnerEmail: partner.ContactEmail,
		PricingModel: string(partner.PricingModel),
		AmountCents:  input.AmountCents,
		Period:       period,
		SiteSlug:     site.Slug,
	})
	if err != nil {
		return nil, &DomainError{Code: CodeBillingFailed, Message: "billing provider rejected charge: " + err.Error()}
	}

	if err := uc.SiteRepo.AssignPartner(ctx, site.Slug, partner.ID, billingRef); err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to assign partner: " + err.Error()}
	}

	uc.Log.Info("partner assigned",
		zap.String("site_slug", site.Slug),
		zap.String("partner_id", partner.ID),
		zap.String("pricing_model", string(partner.PricingModel)),
		zap.String("billing_ref", billingRef),
	)

	return &AssignPartnerOutput{
		SiteSlug:   site.Slug,
		PartnerID:  partner.ID,
		BillingRef: billingRef,
	}, nil
}
