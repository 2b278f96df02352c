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

const userColumns = `id, first_name, last_name, username, email, password_hash, country, membership, role, profile_picture_url, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var pictureNull sql.NullString
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.PasswordHash,
		&u.Country, &u.Membership, &u.Role, &pictureNull, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if pictureNull.Valid {
		u.ProfilePictureURL = pictureNull.String
	}
	return u, nil
}

// mapUserConstraint translates unique-violation errors into the domain
// taxonomy so duplicate email/username surface as conflicts.
func mapUserConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if strings.Contains(pqErr.Constraint, "email") {
			return domain.ErrDuplicateEmail
		}
		return domain.ErrConflict
	}
	return err
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (first_name, last_name, username, email, password_hash, country, membership, role, profile_picture_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.FirstName, u.LastName, u.Username, u.Email, u.PasswordHash,
		u.Country, u.Membership, u.Role, nullString(u.ProfilePictureURL), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return mapUserConstraint(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	conds := []string{}
	args := []any{}
	if filter.Country != nil {
		args = append(args, *filter.Country)
		conds = append(conds, fmt.Sprintf("country = $%d", len(args)))
	}
	if filter.Membership != nil {
		args = append(args, *filter.Membership)
		conds = append(conds, fmt.Sprintf("membership = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", n))
		args = append(args, *upd.FirstName)
		n++
	}
	if upd.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", n))
		args = append(args, *upd.LastName)
		n++
	}
	if upd.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", n))
		args = append(args, *upd.Username)
		n++
	}
	if upd.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", n))
		args = append(args, *upd.Email)
		n++
	}
	if upd.Country != nil {
		setClauses = append(setClauses, fmt.Sprintf("country = $%d", n))
		args = append(args, *upd.Country)
		n++
	}
	if upd.Membership != nil {
		setClauses = append(setClauses, fmt.Sprintf("membership = $%d", n))
		args = append(args, *upd.Membership)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapUserConstraint(err)
	}
	return u, nil
}

func (r *userRepository) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	query := `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, role, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) SetProfilePicture(ctx context.Context, id string, url string) (*domain.User, error) {
	query := `
		UPDATE users SET profile_picture_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, url, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
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

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (r *userRepository) CountByCountry(ctx context.Context) (map[string]int, error) {
	return r.countGrouped(ctx, `SELECT country, COUNT(*) FROM users GROUP BY country`)
}

func (r *userRepository) CountByMembership(ctx context.Context) (map[string]int, error) {
	return r.countGrouped(ctx, `SELECT membership, COUNT(*) FROM users GROUP BY membership`)
}

func (r *userRepository) countGrouped(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
