package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/entity"
	"github.com/localauthority/leadengine/internal/infra/queue"
)

type RoutingOutcome string

const (
	OutcomeRouted             RoutingOutcome = "routed"
	OutcomeFlaggedForOutreach RoutingOutcome = "flagged_for_outreach"
)

// RouteLeadUseCase decides, exactly once per lead and synchronously
// after storage, whether the lead goes to the site's partner or stays
// flagged for the eligibility scanner. The decision is deterministic
// given site and partner state at routing time.
type RouteLeadUseCase struct {
	LeadRepo    LeadRepositoryInterface
	PartnerRepo PartnerRepositoryInterface
	Producer    NotificationProducer
	Log         *zap.Logger
}

func NewRouteLeadUseCase(
	leadRepo LeadRepositoryInterface,
	partnerRepo PartnerRepositoryInterface,
	producer NotificationProducer,
	log *zap.Logger,
) *RouteLeadUseCase {
	return &RouteLeadUseCase{
		LeadRepo:    leadRepo,
		PartnerRepo: partnerRepo,
		Producer:    producer,
		Log:         log,
	}
}

func (uc *RouteLeadUseCase) Execute(ctx context.Context, lead *entity.Lead, site *entity.Site) (RoutingOutcome, error) {
	partner := uc.resolvePartner(ctx, lead, site)
	if partner == nil {
		return uc.flag(ctx, lead)
	}

	if err := lead.MarkRouted(); err != nil {
		return "", &TechnicalError{Code: CodeDatabaseError, Message: err.Error()}
	}
	if err := uc.LeadRepo.UpdateRoutingStatus(ctx, lead.ID, entity.RoutingStatusRouted); err != nil {
		return "", &TechnicalError{Code: CodeDatabaseError, Message: "failed to update routing status: " + err.Error()}
	}

	// Best-effort notification. A publish failure is logged, never
	// propagated: the lead stays routed and storage already succeeded.
	payload := queue.LeadNotification{
		LeadID:       lead.ID,
		SiteSlug:     site.Slug,
		Niche:        site.Niche,
		City:         site.City,
		PartnerID:    partner.ID,
		PartnerEmail: partner.ContactEmail,
		LeadName:     lead.Name,
		LeadPhone:    lead.Phone,
		LeadEmail:    lead.Email,
		Service:      lead.Service,
		Message:      lead.Message,
		ReceivedAt:   lead.ReceivedAt,
	}
	if err := uc.Producer.PublishLeadRouted(ctx, payload); err != nil {
		uc.Log.Error("failed to publish lead notification",
			zap.String("lead_id", lead.ID),
			zap.String("partner_id", partner.ID),
			zap.Error(err),
		)
	}

	return OutcomeRouted, nil
}

// resolvePartner returns nil when the lead cannot be routed: no partner
// assigned, partner record missing, or partner at capacity for the
// trailing 30 days.
func (uc *RouteLeadUseCase) resolvePartner(ctx context.Context, lead *entity.Lead, site *entity.Site) *entity.Partner {
	if site.PartnerID == nil {
		return nil
	}

	partner, err := uc.PartnerRepo.FindByID(ctx, *site.PartnerID)
	if err != nil {
		if !errors.Is(err, entity.ErrPartnerNotFound) {
			uc.Log.Error("partner lookup failed, leaving lead for outreach",
				zap.String("site_slug", site.Slug),
				zap.Error(err),
			)
		}
		return nil
	}

	if partner.Capacity != nil {
		from := lead.ReceivedAt.Add(-30 * 24 * time.Hour)
		routed, err := uc.LeadRepo.CountRoutedForPartnerSince(ctx, partner.ID, from)
		if err != nil {
			uc.Log.Error("capacity check failed, leaving lead for outreach",
				zap.String("partner_id", partner.ID),
				zap.Error(err),
			)
			return nil
		}
		if routed >= *partner.Capacity {
			uc.Log.Warn("partner at capacity, flagging lead",
				zap.String("partner_id", partner.ID),
				zap.Int("capacity", *partner.Capacity),
			)
			return nil
		}
	}

	return partner
}

func (uc *RouteLeadUseCase) flag(ctx context.Context, lead *entity.Lead) (RoutingOutcome, error) {
	if err := lead.FlagForOutreach(); err != nil {
		return "", &TechnicalError{Code: CodeDatabaseError, Message: err.Error()}
	}
	if err := uc.LeadRepo.UpdateRoutingStatus(ctx, lead.ID, entity.RoutingStatusFlaggedForOutreach); err != nil {
		return "", &TechnicalError{Code: CodeDatabaseError, Message: "failed to update routing status: " + err.Error()}
	}
	return OutcomeFlaggedForOutreach, nil
}
