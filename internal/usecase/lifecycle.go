package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type RunReport struct {
	AsOf          time.Time
	FlaggedSites  []string
	Deactivated   []string
	OutreachSent   int
	OutreachFailed int
}

// LifecycleController runs the eligibility scanner and the ROI tracker
// on a cadence and is the only writer of site status transitions.
// Each transition is atomic per site; outreach fires exactly once per
// newly sales_eligible site, keyed off the transition actually applying.
type LifecycleController struct {
	Scanner  *EligibilityScanner
	Tracker  *ROITracker
	SiteRepo SiteRepositoryInterface
	RunRepo  RunRepositoryInterface
	Outreach OutreachSender
	Log      *zap.Logger
}

func NewLifecycleController(
	scanner *EligibilityScanner,
	tracker *ROITracker,
	siteRepo SiteRepositoryInterface,
	runRepo RunRepositoryInterface,
	outreach OutreachSender,
	log *zap.Logger,
) *LifecycleController {
	return &LifecycleController{
		Scanner:  scanner,
		Tracker:  tracker,
		SiteRepo: siteRepo,
		RunRepo:  runRepo,
		Outreach: outreach,
		Log:      log,
	}
}

// RunOnce evaluates as of a single timestamp so both jobs see the same
// window boundary. A failed run is not retried inline; the next
// scheduled run covers the same trailing windows without double-counting
// because flagging is guarded by the status transition itself.
func (c *LifecycleController) RunOnce(ctx context.Context, asOf time.Time) (*RunReport, error) {
	report := &RunReport{AsOf: asOf}

	if last, err := c.RunRepo.LastRun(ctx); err == nil && last != nil {
		c.Log.Debug("previous lifecycle run", zap.Time("last_run", *last))
	}

	flagged, err := c.Scanner.Scan(ctx, asOf)
	if err != nil {
		return nil, err
	}

	for _, result := range flagged {
		applied, err := c.SiteRepo.MarkSalesEligible(ctx, result.SiteSlug)
		if err != nil {
			c.Log.Error("failed to mark site sales_eligible",
				zap.String("site_slug", result.SiteSlug),
				zap.Error(err),
			)
			continue
		}
		if !applied {
			// Already eligible or state changed under us. No outreach:
			// the trigger belongs to whoever applied the transition.
			continue
		}

		report.FlaggedSites = append(report.FlaggedSites, result.SiteSlug)
		c.triggerOutreach(ctx, result, report)
	}

	toDeactivate, err := c.Tracker.Evaluate(ctx, asOf)
	if err != nil {
		return nil, err
	}

	for _, result := range toDeactivate {
		applied, err := c.SiteRepo.Deactivate(ctx, result.SiteSlug)
		if err != nil {
			c.Log.Error("failed to deactivate site",
				zap.String("site_slug", result.SiteSlug),
				zap.Error(err),
			)
			continue
		}
		if applied {
			c.Log.Info("site deactivated",
				zap.String("site_slug", result.SiteSlug),
				zap.String("reason", string(result.Reason)),
			)
			report.Deactivated = append(report.Deactivated, result.SiteSlug)
		}
	}

	if err := c.RunRepo.RecordRun(ctx, asOf, len(report.FlaggedSites), len(report.Deactivated)); err != nil {
		c.Log.Error("failed to record lifecycle run", zap.Error(err))
	}

	return report, nil
}

// triggerOutreach sends the sales email for a site that just became
// eligible. The transition is already committed; a send failure is
// logged and counted, never rolled back.
func (c *LifecycleController) triggerOutreach(ctx context.Context, result ScanResult, report *RunReport) {
	site, err := c.SiteRepo.FindBySlug(ctx, result.SiteSlug)
	if err != nil {
		c.Log.Error("failed to load site for outreach",
			zap.String("site_slug", result.SiteSlug),
			zap.Error(err),
		)
		report.OutreachFailed++
		return
	}

	if err := c.Outreach.SendOutreach(site, result.LeadCount); err != nil {
		c.Log.Error("outreach email failed",
			zap.String("site_slug", site.Slug),
			zap.Error(err),
		)
		report.OutreachFailed++
		return
	}

	c.Log.Info("outreach triggered",
		zap.String("site_slug", site.Slug),
		zap.String("city", site.City),
		zap.Int("lead_count", result.LeadCount),
	)
	report.OutreachSent++
}
