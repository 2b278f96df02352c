package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"communityhub/internal/domain"

	"github.com/lib/pq"
)

const eventColumns = `id, title, description, date, type, status, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Type, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Type, e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string, typ domain.EventType) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND type = $2`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, typ))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	conds := []string{}
	args := []any{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, typ domain.EventType, upd domain.EventUpdate) (*domain.Event, error) {
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
	if upd.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", n))
		args = append(args, *upd.Date)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id, typ)
	}
	args = append(args, id, typ)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d AND type = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, n+1, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	_, err := r.DB.ExecContext(ctx, query, status, pq.Array(ids))
	return err
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
