package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"communityhub/internal/domain"
)

const newsColumns = `id, title, description, image_url, type, status, created_at, updated_at`

type newsRepository struct {
	DB *sql.DB
}

func NewNewsRepository(db *sql.DB) domain.NewsRepository {
	return &newsRepository{
		DB: db,
	}
}

func scanNews(row interface{ Scan(...any) error }) (*domain.News, error) {
	n := &domain.News{}
	var imageNull sql.NullString
	err := row.Scan(
		&n.ID, &n.Title, &n.Description, &imageNull, &n.Type, &n.Status, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageNull.Valid {
		n.ImageURL = imageNull.String
	}
	return n, nil
}

func (r *newsRepository) Create(ctx context.Context, n *domain.News) error {
	query := `
		INSERT INTO news (title, description, image_url, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		n.Title, n.Description, nullString(n.ImageURL), n.Type, n.Status, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
}

func (r *newsRepository) GetByID(ctx context.Context, id string) (*domain.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = $1`
	n, err := scanNews(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *newsRepository) ListByType(ctx context.Context, typ domain.NewsType, status domain.Status) ([]*domain.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE type = $1 AND status = $2 ORDER BY created_at DESC`
	return r.queryNews(ctx, query, typ, status)
}

func (r *newsRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE status = $1 ORDER BY created_at DESC`
	return r.queryNews(ctx, query, status)
}

func (r *newsRepository) queryNews(ctx context.Context, query string, args ...any) ([]*domain.News, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*domain.News, 0)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *newsRepository) Update(ctx context.Context, id string, upd domain.NewsUpdate) (*domain.News, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *upd.Title)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.ImageURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_url = $%d", n))
		args = append(args, *upd.ImageURL)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE news SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, newsColumns)
	item, err := scanNews(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *newsRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.News, error) {
	query := `
		UPDATE news SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + newsColumns
	item, err := scanNews(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
