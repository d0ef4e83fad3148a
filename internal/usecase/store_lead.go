package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/entity"
)

type StoreLeadInput struct {
	SiteSlug string `json:"site_slug"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Service  string `json:"service"`
	Message  string `json:"message"`
}

type StoreLeadOutput struct {
	LeadID        string               `json:"lead_id"`
	RoutingStatus entity.RoutingStatus `json:"routing_status"`
	Message       string               `json:"message"`
}

// StoreLeadUseCase appends a lead and routes it synchronously. Unknown
// slugs auto-provision a minimal Site (generated sites can go live
// before the registry hears about them); deactivated sites reject.
type StoreLeadUseCase struct {
	SiteRepo SiteRepositoryInterface
	LeadRepo LeadRepositoryInterface
	Router   *RouteLeadUseCase
	Log      *zap.Logger
}

func NewStoreLeadUseCase(
	siteRepo SiteRepositoryInterface,
	leadRepo LeadRepositoryInterface,
	router *RouteLeadUseCase,
	log *zap.Logger,
) *StoreLeadUseCase {
	return &StoreLeadUseCase{
		SiteRepo: siteRepo,
		LeadRepo: leadRepo,
		Router:   router,
		Log:      log,
	}
}

func (uc *StoreLeadUseCase) Execute(ctx context.Context, input StoreLeadInput) (*StoreLeadOutput, error) {
	validationErrors := ValidateStoreLeadInput(input)
	if len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    CodeInvalidLeadData,
			Message: joinValidationErrors(validationErrors),
		}
	}

	site, err := uc.findOrProvisionSite(ctx, input.SiteSlug)
	if err != nil {
		return nil, err
	}

	if site.IsDeactivated() {
		return nil, &DomainError{
			Code:    CodeSiteDeactivated,
			Message: "site no longer accepts submissions: " + site.Slug,
		}
	}

	lead := entity.NewLead(input.SiteSlug, input.Name, input.Phone, input.Email, input.Service, input.Message)
	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabaseError,
			Message: "failed to store lead: " + err.Error(),
		}
	}

	// Routing happens exactly once, after storage succeeded. A routing
	// failure leaves the lead stored and unrouted; that is still a
	// successful submission from the site's point of view.
	outcome, err := uc.Router.Execute(ctx, lead, site)
	if err != nil {
		uc.Log.Error("routing failed, lead stored unrouted",
			zap.String("lead_id", lead.ID),
			zap.String("site_slug", site.Slug),
			zap.Error(err),
		)
		return &StoreLeadOutput{
			LeadID:        lead.ID,
			RoutingStatus: lead.RoutingStatus,
			Message:       "Thank you for contacting us. We will reach out shortly.",
		}, nil
	}

	msg := "Thank you for contacting us. We will reach out shortly."
	if outcome == OutcomeRouted {
		msg = "Thank you! Your request has been routed to our local partner."
	}

	return &StoreLeadOutput{
		LeadID:        lead.ID,
		RoutingStatus: lead.RoutingStatus,
		Message:       msg,
	}, nil
}

// findOrProvisionSite resolves the slug, creating a bare Site on first
// contact. Two concurrent first submissions race on the slug's unique
// constraint; the loser re-reads the winner's row, so exactly one Site
// record ever exists per slug.
func (uc *StoreLeadUseCase) findOrProvisionSite(ctx context.Context, slug string) (*entity.Site, error) {
	site, err := uc.SiteRepo.FindBySlug(ctx, slug)
	if err == nil {
		return site, nil
	}
	if !errors.Is(err, entity.ErrUnknownSite) {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "site lookup failed: " + err.Error()}
	}

	site = entity.NewSiteFromSlug(slug)
	if site == nil {
		return nil, &DomainError{Code: CodeUnknownSite, Message: "invalid site slug: " + slug}
	}

	uc.Log.Info("auto-provisioning site for unknown slug",
		zap.String("slug", slug),
		zap.String("niche", site.Niche),
		zap.String("city", site.City),
	)

	if err := uc.SiteRepo.Create(ctx, site); err != nil {
		if errors.Is(err, entity.ErrDuplicateSite) {
			existing, ferr := uc.SiteRepo.FindBySlug(ctx, slug)
			if ferr != nil {
				return nil, &TechnicalError{Code: CodeDatabaseError, Message: "site lookup failed: " + ferr.Error()}
			}
			return existing, nil
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "site auto-provision failed: " + err.Error()}
	}

	return site, nil
}
