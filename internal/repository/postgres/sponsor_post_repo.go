package postgres

import (
	"context"
	"database/sql"
	"errors"

	"communityhub/internal/domain"

	"github.com/lib/pq"
)

const sponsorPostColumns = `id, sponsor_id, title, description, image_url, valid_from, valid_until, status, created_at, updated_at`

type sponsorPostRepository struct {
	DB *sql.DB
}

func NewSponsorPostRepository(db *sql.DB) domain.SponsorPostRepository {
	return &sponsorPostRepository{
		DB: db,
	}
}

func scanSponsorPost(row interface{ Scan(...any) error }) (*domain.SponsorPost, error) {
	p := &domain.SponsorPost{}
	var imageNull sql.NullString
	var untilNull sql.NullTime
	err := row.Scan(
		&p.ID, &p.SponsorID, &p.Title, &p.Description, &imageNull,
		&p.ValidFrom, &untilNull, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageNull.Valid {
		p.ImageURL = imageNull.String
	}
	if untilNull.Valid {
		p.ValidUntil = &untilNull.Time
	}
	return p, nil
}

func (r *sponsorPostRepository) Create(ctx context.Context, p *domain.SponsorPost) error {
	query := `
		INSERT INTO sponsor_posts (sponsor_id, title, description, image_url, valid_from, valid_until, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var until sql.NullTime
	if p.ValidUntil != nil {
		until = sql.NullTime{Time: *p.ValidUntil, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		p.SponsorID, p.Title, p.Description, nullString(p.ImageURL),
		p.ValidFrom, until, p.Status, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *sponsorPostRepository) GetByID(ctx context.Context, id string) (*domain.SponsorPost, error) {
	query := `SELECT ` + sponsorPostColumns + ` FROM sponsor_posts WHERE id = $1`
	p, err := scanSponsorPost(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *sponsorPostRepository) ListAll(ctx context.Context) ([]*domain.SponsorPost, error) {
	query := `SELECT ` + sponsorPostColumns + ` FROM sponsor_posts ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := make([]*domain.SponsorPost, 0)
	for rows.Next() {
		p, err := scanSponsorPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *sponsorPostRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.SponsorPost, error) {
	query := `
		UPDATE sponsor_posts SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + sponsorPostColumns
	p, err := scanSponsorPost(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *sponsorPostRepository) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE sponsor_posts SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	_, err := r.DB.ExecContext(ctx, query, status, pq.Array(ids))
	return err
}
