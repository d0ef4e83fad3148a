package usecase

import (
	"context"
	"time"

	"github.com/localauthority/leadengine/internal/entity"
	"github.com/localauthority/leadengine/internal/infra/billing"
	"github.com/localauthority/leadengine/internal/infra/queue"
)

type SiteRepositoryInterface interface {
	Create(ctx context.Context, site *entity.Site) error
	FindBySlug(ctx context.Context, slug string) (*entity.Site, error)
	// ListUnassignedActive returns active sites with no partner, the
	// population the eligibility scanner evaluates.
	ListUnassignedActive(ctx context.Context) ([]*entity.Site, error)
	// ListEvaluable returns active and sales_eligible sites, the
	// population the ROI tracker evaluates.
	ListEvaluable(ctx context.Context) ([]*entity.Site, error)
	AssignPartner(ctx context.Context, slug, partnerID, billingRef string) error
	// MarkSalesEligible applies active -> sales_eligible for an
	// unassigned site. Returns false when the transition did not apply
	// (already eligible, deactivated, or partner assigned meanwhile).
	MarkSalesEligible(ctx context.Context, slug string) (bool, error)
	// Deactivate applies {active, sales_eligible} -> deactivated.
	// Returns false when the site was already deactivated.
	Deactivate(ctx context.Context, slug string) (bool, error)
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	// UpdateRoutingStatus moves a lead out of unrouted exactly once;
	// the guard lives in the UPDATE's WHERE clause.
	UpdateRoutingStatus(ctx context.Context, id string, status entity.RoutingStatus) error
	// CountInWindow counts leads for a site with received_at in the
	// half-open window (from, to]: exclusive of from, inclusive of to.
	CountInWindow(ctx context.Context, siteSlug string, from, to time.Time) (int, error)
	CountRoutedForPartnerSince(ctx context.Context, partnerID string, from time.Time) (int, error)
}

type PartnerRepositoryInterface interface {
	Create(ctx context.Context, partner *entity.Partner) error
	FindByID(ctx context.Context, id string) (*entity.Partner, error)
}

type LedgerRepositoryInterface interface {
	Append(ctx context.Context, event *entity.LedgerEvent) error
	// NetCents sums revenue minus cost for a site up to and including
	// asOf. A nil from means lifetime.
	NetCents(ctx context.Context, siteSlug string, from *time.Time, asOf time.Time) (int64, error)
}

type RunRepositoryInterface interface {
	LastRun(ctx context.Context) (*time.Time, error)
	RecordRun(ctx context.Context, asOf time.Time, flagged, deactivated int) error
}

type NotificationProducer interface {
	PublishLeadRouted(ctx context.Context, payload queue.LeadNotification) error
}

// OutreachSender starts the sales conversation for a newly
// sales_eligible site. Invoked exactly once per transition.
type OutreachSender interface {
	SendOutreach(site *entity.Site, leadCount int) error
}

type BillingGateway interface {
	CreateCharge(input billing.CreateChargeInput) (string, error)
}
