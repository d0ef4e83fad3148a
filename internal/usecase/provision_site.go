package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/entity"
)

type ProvisionSiteInput struct {
	Slug  string `json:"slug"`
	Niche string `json:"niche"`
	City  string `json:"city"`
}

// NicheEntry is one row of the ranked niche/city catalog the scale
// engine iterates. Passed in explicitly so batch runs are reproducible.
type NicheEntry struct {
	Rank       int     `json:"rank"`
	Niche      string  `json:"niche"`
	City       string  `json:"city"`
	CPC        float64 `json:"cpc"`
	Difficulty int     `json:"difficulty"`
}

type BatchProvisionReport struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// ProvisionSiteUseCase registers sites on behalf of the site-generation
// collaborator, one at a time at deployment or in bulk from a catalog.
type ProvisionSiteUseCase struct {
	SiteRepo SiteRepositoryInterface
	Log      *zap.Logger
}

func NewProvisionSiteUseCase(siteRepo SiteRepositoryInterface, log *zap.Logger) *ProvisionSiteUseCase {
	return &ProvisionSiteUseCase{SiteRepo: siteRepo, Log: log}
}

func (uc *ProvisionSiteUseCase) Execute(ctx context.Context, input ProvisionSiteInput) (*entity.Site, error) {
	slug := input.Slug
	if slug == "" {
		slug = entity.Slugify(input.Niche, input.City)
	}

	site, err := entity.NewSite(slug, input.Niche, input.City)
	if err != nil {
		return nil, &DomainError{Code: CodeUnknownSite, Message: err.Error()}
	}

	if err := uc.SiteRepo.Create(ctx, site); err != nil {
		if errors.Is(err, entity.ErrDuplicateSite) {
			return nil, &DomainError{Code: CodeDuplicateSite, Message: "site already exists: " + slug}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to create site: " + err.Error()}
	}

	uc.Log.Info("site provisioned",
		zap.String("slug", site.Slug),
		zap.String("niche", site.Niche),
		zap.String("city", site.City),
	)

	return site, nil
}

// ExecuteBatch clones the registry across a ranked catalog. Existing
// slugs are skipped, not failed, so re-running the catalog is safe.
func (uc *ProvisionSiteUseCase) ExecuteBatch(ctx context.Context, entries []NicheEntry) (*BatchProvisionReport, error) {
	report := &BatchProvisionReport{}

	for _, entry := range entries {
		slug := entity.Slugify(entry.Niche, entry.City)

		site, err := uc.Execute(ctx, ProvisionSiteInput{Slug: slug, Niche: entry.Niche, City: entry.City})
		if err != nil {
			var domainErr *DomainError
			if errors.As(err, &domainErr) && domainErr.Code == CodeDuplicateSite {
				report.Skipped = append(report.Skipped, slug)
				continue
			}
			return report, err
		}

		report.Created = append(report.Created, site.Slug)
	}

	uc.Log.Info("batch provisioning complete",
		zap.Int("created", len(report.Created)),
		zap.Int("skipped", len(report.Skipped)),
	)

	return report, nil
}
