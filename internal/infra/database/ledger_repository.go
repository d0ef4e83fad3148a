package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/localauthority/leadengine/internal/entity"
)

type LedgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

func (r *LedgerRepository) Append(ctx context.Context, event *entity.LedgerEvent) error {
	query := `
		INSERT INTO revenue_cost_events (id, site_slug, event_type, amount_cents, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.DB.ExecContext(ctx, query,
		event.ID,
		event.SiteSlug,
		event.Type,
		event.AmountCents,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger event: %w", err)
	}

	return nil
}

// NetCents sums revenue minus cost up to and including asOf. A nil from
// means lifetime; otherwise events strictly after from are included,
// matching the lead-count window convention.
func (r *LedgerRepository) NetCents(ctx context.Context, siteSlug string, from *time.Time, asOf time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN event_type = 'revenue' THEN amount_cents ELSE -amount_cents END
		), 0)
		FROM revenue_cost_events
		WHERE site_slug = $1 AND occurred_at <= $2
	`
	args := []interface{}{siteSlug, asOf}

	if from != nil {
		query += ` AND occurred_at > $3`
		args = append(args, *from)
	}

	var net int64
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&net)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}

	return net, nil
}
