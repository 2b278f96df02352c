package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"communityhub/internal/domain"

	"github.com/lib/pq"
)

const activityColumns = `id, title, description, date, time, link, type, status, created_at, updated_at`

type activityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) domain.ActivityRepository {
	return &activityRepository{
		DB: db,
	}
}

func scanActivity(row interface{ Scan(...any) error }) (*domain.Activity, error) {
	a := &domain.Activity{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Date, &a.Time, &a.Link,
		&a.Type, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	query := `
		INSERT INTO activities (title, description, date, time, link, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		a.Title, a.Description, a.Date, a.Time, a.Link, a.Type, a.Status, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *activityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities`
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
	activities := make([]*domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *activityRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE date >= $1 ORDER BY date ASC`
	rows, err := r.DB.QueryContext(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	activities := make([]*domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *activityRepository) Update(ctx context.Context, id string, upd domain.ActivityUpdate) (*domain.Activity, error) {
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
	if upd.Time != nil {
		setClauses = append(setClauses, fmt.Sprintf("time = $%d", n))
		args = append(args, *upd.Time)
		n++
	}
	if upd.Link != nil {
		setClauses = append(setClauses, fmt.Sprintf("link = $%d", n))
		args = append(args, *upd.Link)
		n++
	}
	if upd.Type != nil {
		setClauses = append(setClauses, fmt.Sprintf("type = $%d", n))
		args = append(args, *upd.Type)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE activities SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, activityColumns)
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *activityRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Activity, error) {
	query := `
		UPDATE activities SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + activityColumns
	a, err := scanActivity(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *activityRepository) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE activities SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	_, err := r.DB.ExecContext(ctx, query, status, pq.Array(ids))
	return err
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM activities WHERE id = $1`
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
