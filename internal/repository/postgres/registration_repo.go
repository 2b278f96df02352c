package postgres

import (
	"context"
	"database/sql"
	"errors"

	"communityhub/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Create inserts the (activity, user) pair. The table carries a UNIQUE
// constraint on the pair, so a racing duplicate insert surfaces as
// ErrConflict instead of a second row.
func (r *registrationRepository) Create(ctx context.Context, activityID, userID string) error {
	query := `
		INSERT INTO activity_registrations (activity_id, user_id, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := r.DB.ExecContext(ctx, query, activityID, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, activityID, userID string) error {
	query := `DELETE FROM activity_registrations WHERE activity_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, activityID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) Exists(ctx context.Context, activityID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM activity_registrations WHERE activity_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, activityID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) ListUsersByActivity(ctx context.Context, activityID string) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.username, u.email, COALESCE(u.profile_picture_url, '')
		FROM users u
		JOIN activity_registrations ar ON ar.user_id = u.id
		WHERE ar.activity_id = $1
		ORDER BY ar.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.UserSummary, 0)
	for rows.Next() {
		u := &domain.UserSummary{}
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.ProfilePictureURL); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *registrationRepository) ListActivitiesByUser(ctx context.Context, userID string) ([]*domain.Activity, error) {
	query := `
		SELECT a.id, a.title, a.description, a.date, a.time, a.link, a.type, a.status, a.created_at, a.updated_at
		FROM activities a
		JOIN activity_registrations ar ON ar.activity_id = a.id
		WHERE ar.user_id = $1
		ORDER BY a.date DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
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
