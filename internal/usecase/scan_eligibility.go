package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultLeadThreshold  = 5
	DefaultLeadWindowDays = 30
)

// ScanResult names a site that crossed the lead-volume threshold, with
// the count that triggered it (used in the outreach email).
type ScanResult struct {
	SiteSlug  string
	LeadCount int
}

// EligibilityScanner flags unassigned sites whose trailing lead volume
// justifies starting partner outreach. Scanning never mutates; the
// lifecycle controller applies the transitions.
//
// The window is half-open: a lead received exactly at asOf-window is
// excluded, a lead at asOf is included.
type EligibilityScanner struct {
	SiteRepo  SiteRepositoryInterface
	LeadRepo  LeadRepositoryInterface
	Threshold int
	Window    time.Duration
	Log       *zap.Logger
}

func NewEligibilityScanner(
	siteRepo SiteRepositoryInterface,
	leadRepo LeadRepositoryInterface,
	threshold int,
	windowDays int,
	log *zap.Logger,
) *EligibilityScanner {
	if threshold <= 0 {
		threshold = DefaultLeadThreshold
	}
	if windowDays <= 0 {
		windowDays = DefaultLeadWindowDays
	}
	return &EligibilityScanner{
		SiteRepo:  siteRepo,
		LeadRepo:  leadRepo,
		Threshold: threshold,
		Window:    time.Duration(windowDays) * 24 * time.Hour,
		Log:       log,
	}
}

// Scan is idempotent: the candidate set only contains active sites, so
// a site already sales_eligible is never returned again.
func (s *EligibilityScanner) Scan(ctx context.Context, asOf time.Time) ([]ScanResult, error) {
	sites, err := s.SiteRepo.ListUnassignedActive(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to list candidate sites: " + err.Error()}
	}

	from := asOf.Add(-s.Window)
	var flagged []ScanResult

	for _, site := range sites {
		count, err := s.LeadRepo.CountInWindow(ctx, site.Slug, from, asOf)
		if err != nil {
			return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to count leads for " + site.Slug + ": " + err.Error()}
		}

		if count >= s.Threshold {
			s.Log.Info("site crossed lead threshold",
				zap.String("site_slug", site.Slug),
				zap.Int("lead_count", count),
				zap.Int("threshold", s.Threshold),
			)
			flagged = append(flagged, ScanResult{SiteSlug: site.Slug, LeadCount: count})
		}
	}

	return flagged, nil
}
