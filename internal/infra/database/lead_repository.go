package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/localauthority/leadengine/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, site_slug, name, phone, email, service, message, routing_status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.SiteSlug,
		lead.Name,
		lead.Phone,
		nullString(lead.Email),
		nullString(lead.Service),
		nullString(lead.Message),
		lead.RoutingStatus,
		lead.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

// UpdateRoutingStatus only moves a lead out of unrouted. Leads are
// immutable otherwise, and the status never reverts or changes twice.
func (r *LeadRepository) UpdateRoutingStatus(ctx context.Context, id string, status entity.RoutingStatus) error {
	query := `
		UPDATE leads
		SET routing_status = $1
		WHERE id = $2 AND routing_status = 'unrouted'
	`

	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update routing status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrLeadAlreadyRouted
	}

	return nil
}

// CountInWindow uses the half-open window (from, to]: strictly after
// from, up to and including to.
func (r *LeadRepository) CountInWindow(ctx context.Context, siteSlug string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM leads
		WHERE site_slug = $1 AND received_at > $2 AND received_at <= $3
	`

	var count int
	err := r.DB.QueryRowContext(ctx, query, siteSlug, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}

	return count, nil
}

func (r *LeadRepository) CountRoutedForPartnerSince(ctx context.Context, partnerID string, from time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM leads l
		JOIN sites s ON s.slug = l.site_slug
		WHERE s.partner_id = $1 AND l.routing_status = 'routed' AND l.received_at > $2
	`

	var count int
	err := r.DB.QueryRowContext(ctx, query, partnerID, from).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count routed leads: %w", err)
	}

	return count, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
