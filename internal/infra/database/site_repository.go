package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/localauthority/leadengine/internal/entity"
)

type SiteRepository struct {
	DB *sql.DB
}

func NewSiteRepository(db *sql.DB) *SiteRepository {
	return &SiteRepository{DB: db}
}

func (r *SiteRepository) Create(ctx context.Context, site *entity.Site) error {
	query := `
		INSERT INTO sites (slug, niche, city, partner_id, status, billing_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		site.Slug,
		site.Niche,
		site.City,
		site.PartnerID,
		site.Status,
		site.BillingRef,
		site.CreatedAt,
		site.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateSite
		}
		return fmt.Errorf("failed to insert site: %w", err)
	}

	return nil
}

func (r *SiteRepository) FindBySlug(ctx context.Context, slug string) (*entity.Site, error) {
	query := `
		SELECT slug, niche, city, partner_id, status, billing_ref, created_at, updated_at
		FROM sites
		WHERE slug = $1
	`

	site, err := scanSite(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUnknownSite
		}
		return nil, fmt.Errorf("failed to find site: %w", err)
	}

	return site, nil
}

func (r *SiteRepository) ListUnassignedActive(ctx context.Context) ([]*entity.Site, error) {
	query := `
		SELECT slug, niche, city, partner_id, status, billing_ref, created_at, updated_at
		FROM sites
		WHERE partner_id IS NULL AND status = 'active'
		ORDER BY created_at
	`
	return r.list(ctx, query)
}

func (r *SiteRepository) ListEvaluable(ctx context.Context) ([]*entity.Site, error) {
	query := `
		SELECT slug, niche, city, partner_id, status, billing_ref, created_at, updated_at
		FROM sites
		WHERE status IN ('active', 'sales_eligible')
		ORDER BY created_at
	`
	return r.list(ctx, query)
}

func (r *SiteRepository) AssignPartner(ctx context.Context, slug, partnerID, billingRef string) error {
	query := `
		UPDATE sites
		SET partner_id = $1, billing_ref = $2, updated_at = NOW()
		WHERE slug = $3 AND status != 'deactivated'
	`

	result, err := r.DB.ExecContext(ctx, query, partnerID, billingRef, slug)
	if err != nil {
		return fmt.Errorf("failed to assign partner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrUnknownSite
	}

	return nil
}

// MarkSalesEligible applies the transition and reports whether this
// call won it. The WHERE clause is the guard: only an active site with
// no partner flips, so concurrent scans cannot double-trigger outreach.
func (r *SiteRepository) MarkSalesEligible(ctx context.Context, slug string) (bool, error) {
	query := `
		UPDATE sites
		SET status = 'sales_eligible', updated_at = NOW()
		WHERE slug = $1 AND status = 'active' AND partner_id IS NULL
	`
	return r.applyTransition(ctx, query, slug)
}

func (r *SiteRepository) Deactivate(ctx context.Context, slug string) (bool, error) {
	query := `
		UPDATE sites
		SET status = 'deactivated', updated_at = NOW()
		WHERE slug = $1 AND status IN ('active', 'sales_eligible')
	`
	return r.applyTransition(ctx, query, slug)
}

func (r *SiteRepository) applyTransition(ctx context.Context, query, slug string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, query, slug)
	if err != nil {
		return false, fmt.Errorf("failed to apply status transition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func (r *SiteRepository) list(ctx context.Context, query string) ([]*entity.Site, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []*entity.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSite(row rowScanner) (*entity.Site, error) {
	var site entity.Site
	var partnerID sql.NullString
	var billingRef sql.NullString

	err := row.Scan(
		&site.Slug,
		&site.Niche,
		&site.City,
		&partnerID,
		&site.Status,
		&billingRef,
		&site.CreatedAt,
		&site.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if partnerID.Valid {
		site.PartnerID = &partnerID.String
	}
	site.BillingRef = billingRef.String

	return &site, nil
}
