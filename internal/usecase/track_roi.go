package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultStallWindowDays = 120

type DeactivationReason string

const (
	ReasonNegativeROI DeactivationReason = "negative_roi"
	ReasonStalled     DeactivationReason = "stalled"
)

type ROIResult struct {
	SiteSlug string
	Reason   DeactivationReason
	NetCents int64
}

// ROITracker flags sites for deactivation when revenue minus cost goes
// negative or lead flow has stalled. Either condition alone triggers;
// a stalled site is flagged even with positive cumulative revenue.
// Evaluation never mutates; the lifecycle controller applies results.
type ROITracker struct {
	SiteRepo    SiteRepositoryInterface
	LeadRepo    LeadRepositoryInterface
	LedgerRepo  LedgerRepositoryInterface
	StallWindow time.Duration
	// ROIWindow narrows the revenue/cost sum to a trailing window.
	// Zero means lifetime.
	ROIWindow time.Duration
	Log       *zap.Logger
}

func NewROITracker(
	siteRepo SiteRepositoryInterface,
	leadRepo LeadRepositoryInterface,
	ledgerRepo LedgerRepositoryInterface,
	stallWindowDays int,
	roiWindowDays int,
	log *zap.Logger,
) *ROITracker {
	if stallWindowDays <= 0 {
		stallWindowDays = DefaultStallWindowDays
	}
	return &ROITracker{
		SiteRepo:    siteRepo,
		LeadRepo:    leadRepo,
		LedgerRepo:  ledgerRepo,
		StallWindow: time.Duration(stallWindowDays) * 24 * time.Hour,
		ROIWindow:   time.Duration(roiWindowDays) * 24 * time.Hour,
		Log:         log,
	}
}

func (t *ROITracker) Evaluate(ctx context.Context, asOf time.Time) ([]ROIResult, error) {
	sites, err := t.SiteRepo.ListEvaluable(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to list evaluable sites: " + err.Error()}
	}

	var flagged []ROIResult

	for _, site := range sites {
		// A site younger than one stall window has not had a fair
		// evaluation period yet; unassigned sites in particular must
		// never be deactivated before their first full window.
		if asOf.Sub(site.CreatedAt) < t.StallWindow {
			continue
		}

		count, err := t.LeadRepo.CountInWindow(ctx, site.Slug, asOf.Add(-t.StallWindow), asOf)
		if err != nil {
			return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to count leads for " + site.Slug + ": " + err.Error()}
		}
		if count == 0 {
			t.Log.Info("site stalled, flagging for deactivation",
				zap.String("site_slug", site.Slug),
				zap.Duration("stall_window", t.StallWindow),
			)
			flagged = append(flagged, ROIResult{SiteSlug: site.Slug, Reason: ReasonStalled})
			continue
		}

		var from *time.Time
		if t.ROIWindow > 0 {
			windowStart := asOf.Add(-t.ROIWindow)
			from = &windowStart
		}

		net, err := t.LedgerRepo.NetCents(ctx, site.Slug, from, asOf)
		if err != nil {
			return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to sum ledger for " + site.Slug + ": " + err.Error()}
		}
		if net < 0 {
			t.Log.Info("site ROI negative, flagging for deactivation",
				zap.String("site_slug", site.Slug),
				zap.Int64("net_cents", net),
			)
			flagged = append(flagged, ROIResult{SiteSlug: site.Slug, Reason: ReasonNegativeROI, NetCents: net})
		}
	}

	return flagged, nil
}
