package postgres

import (
	"context"
	"database/sql"
	"errors"

	"communityhub/internal/domain"

	"github.com/lib/pq"
)

const sponsorOfferColumns = `id, sponsor_id, title, description, image_url, valid_from, valid_until, status, created_at, updated_at`

type sponsorOfferRepository struct {
	DB *sql.DB
}

func NewSponsorOfferRepository(db *sql.DB) domain.SponsorOfferRepository {
	return &sponsorOfferRepository{
		DB: db,
	}
}

func scanSponsorOffer(row interface{ Scan(...any) error }) (*domain.SponsorOffer, error) {
	o := &domain.SponsorOffer{}
	var imageNull sql.NullString
	var untilNull sql.NullTime
	err := row.Scan(
		&o.ID, &o.SponsorID, &o.Title, &o.Description, &imageNull,
		&o.ValidFrom, &untilNull, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageNull.Valid {
		o.ImageURL = imageNull.String
	}
	if untilNull.Valid {
		o.ValidUntil = &untilNull.Time
	}
	return o, nil
}

func (r *sponsorOfferRepository) Create(ctx context.Context, o *domain.SponsorOffer) error {
	query := `
		INSERT INTO sponsor_offers (sponsor_id, title, description, image_url, valid_from, valid_until, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var until sql.NullTime
	if o.ValidUntil != nil {
		until = sql.NullTime{Time: *o.ValidUntil, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		o.SponsorID, o.Title, o.Description, nullString(o.ImageURL),
		o.ValidFrom, until, o.Status, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
}

func (r *sponsorOfferRepository) GetByID(ctx context.Context, id string) (*domain.SponsorOffer, error) {
	query := `SELECT ` + sponsorOfferColumns + ` FROM sponsor_offers WHERE id = $1`
	o, err := scanSponsorOffer(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *sponsorOfferRepository) ListAll(ctx context.Context) ([]*domain.SponsorOffer, error) {
	query := `SELECT ` + sponsorOfferColumns + ` FROM sponsor_offers ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	offers := make([]*domain.SponsorOffer, 0)
	for rows.Next() {
		o, err := scanSponsorOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *sponsorOfferRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.SponsorOffer, error) {
	query := `
		UPDATE sponsor_offers SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + sponsorOfferColumns
	o, err := scanSponsorOffer(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *sponsorOfferRepository) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE sponsor_offers SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	_, err := r.DB.ExecContext(ctx, query, status, pq.Array(ids))
	return err
}
