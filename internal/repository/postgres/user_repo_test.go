package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"communityhub/internal/domain"
)

var userCols = []string{
	"id", "first_name", "last_name", "username", "email", "password_hash",
	"country", "membership", "role", "profile_picture_url", "created_at", "updated_at",
}

func userRow(id, email string) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(userCols).
		AddRow(id, "Alice", "Adams", "alice", email, "hashed", "Spain", "FREE", "USER", nil, now, now)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
			},
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "duplicate username maps to conflict",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
			},
			wantErr: true,
			errIs:   domain.ErrConflict,
		},
		{
			name: "db error passes through",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			repo := NewUserRepository(db)
			u := &domain.User{
				FirstName:  "Alice",
				Username:   "alice",
				Email:      "alice@example.com",
				Membership: domain.MembershipFree,
				Role:       domain.RoleUser,
			}
			err = repo.Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, "u1", u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("success with null picture", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("alice@example.com").
			WillReturnRows(userRow("u1", "alice@example.com"))

		repo := NewUserRepository(db)
		u, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, "u1", u.ID)
		require.Empty(t, u.ProfilePictureURL)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	email := "new@example.com"

	t.Run("duplicate email on update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE users SET updated_at = NOW\(\), email = \$1`).
			WithArgs(email, "u1").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		repo := NewUserRepository(db)
		_, err = repo.Update(ctx, "u1", domain.UserUpdate{Email: &email})
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE users SET updated_at = NOW\(\), email = \$1`).
			WithArgs(email, "missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.Update(ctx, "missing", domain.UserUpdate{Email: &email})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepository_SetRole(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE users SET role = \$1, updated_at = NOW\(\)`).
		WithArgs(domain.RoleAdmin, "u1").
		WillReturnRows(userRow("u1", "alice@example.com"))

	repo := NewUserRepository(db)
	u, err := repo.SetRole(ctx, "u1", domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Counts(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT country, COUNT\(\*\) FROM users GROUP BY country`).
		WillReturnRows(sqlmock.NewRows([]string{"country", "count"}).
			AddRow("Spain", 30).
			AddRow("Portugal", 12))

	repo := NewUserRepository(db)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 42, total)

	byCountry, err := repo.CountByCountry(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"Spain": 30, "Portugal": 12}, byCountry)
	require.NoError(t, mock.ExpectationsWereMet())
}
