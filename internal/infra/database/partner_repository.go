package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/localauthority/leadengine/internal/entity"
)

type PartnerRepository struct {
	DB *sql.DB
}

func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{DB: db}
}

func (r *PartnerRepository) Create(ctx context.Context, partner *entity.Partner) error {
	query := `
		INSERT INTO partners (id, name, contact_email, pricing_model, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.DB.ExecContext(ctx, query,
		partner.ID,
		partner.Name,
		partner.ContactEmail,
		partner.PricingModel,
		partner.Capacity,
		partner.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert partner: %w", err)
	}

	return nil
}

func (r *PartnerRepository) FindByID(ctx context.Context, id string) (*entity.Partner, error) {
	query := `
		SELECT id, name, contact_email, pricing_model, capacity, created_at
		FROM partners
		WHERE id = $1
	`

	var partner entity.Partner
	var capacity sql.NullInt64

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&partner.ID,
		&partner.Name,
		&partner.ContactEmail,
		&partner.PricingModel,
		&capacity,
		&partner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to find partner: %w", err)
	}

	if capacity.Valid {
		c := int(capacity.Int64)
		partner.Capacity = &c
	}

	return &partner, nil
}
