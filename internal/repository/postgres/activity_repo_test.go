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

var activityCols = []string{"id", "title", "description", "date", "time", "link", "type", "status", "created_at", "updated_at"}

func activityRow(id string, status domain.Status, date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(activityCols).
		AddRow(id, "Go Meetup", "Monthly meetup", date, "18:00", "https://meet.example.com", "WEBINAR", status, date, date)
}

func TestActivityRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			id:   "a1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM activities WHERE id = \$1`).
					WithArgs("a1").
					WillReturnRows(activityRow("a1", domain.StatusActive, date))
			},
		},
		{
			name: "not found",
			id:   "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM activities WHERE id = \$1`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "a1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM activities WHERE id = \$1`).
					WithArgs("a1").
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
			repo := NewActivityRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.id, got.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActivityRepository_Update(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	title := "Renamed"

	t.Run("partial update sets only provided fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE activities SET updated_at = NOW\(\), title = \$1\s+WHERE id = \$2`).
			WithArgs("Renamed", "a1").
			WillReturnRows(activityRow("a1", domain.StatusActive, date))

		repo := NewActivityRepository(db)
		got, err := repo.Update(ctx, "a1", domain.ActivityUpdate{Title: &title})
		require.NoError(t, err)
		require.Equal(t, "a1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update fetches current row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM activities WHERE id = \$1`).
			WithArgs("a1").
			WillReturnRows(activityRow("a1", domain.StatusDraft, date))

		repo := NewActivityRepository(db)
		got, err := repo.Update(ctx, "a1", domain.ActivityUpdate{})
		require.NoError(t, err)
		require.Equal(t, domain.StatusDraft, got.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE activities SET`).
			WithArgs("Renamed", "missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewActivityRepository(db)
		_, err = repo.Update(ctx, "missing", domain.ActivityUpdate{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestActivityRepository_BulkSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("flips exactly the given ids", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE activities SET status = \$1, updated_at = NOW\(\) WHERE id = ANY\(\$2\)`).
			WithArgs(domain.StatusInactive, pq.Array([]string{"a1", "a2"})).
			WillReturnResult(sqlmock.NewResult(0, 2))

		repo := NewActivityRepository(db)
		require.NoError(t, repo.BulkSetStatus(ctx, []string{"a1", "a2"}, domain.StatusInactive))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty id list skips the query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewActivityRepository(db)
		require.NoError(t, repo.BulkSetStatus(ctx, nil, domain.StatusInactive))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			id:   "a1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM activities WHERE id = \$1`).
					WithArgs("a1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM activities WHERE id = \$1`).
					WithArgs("missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "a1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM activities WHERE id = \$1`).
					WithArgs("a1").
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
			repo := NewActivityRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActivityRepository_List(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	active := domain.StatusActive

	t.Run("status filter appends a condition", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM activities WHERE status = \$1 ORDER BY date DESC`).
			WithArgs(active).
			WillReturnRows(activityRow("a1", active, date))

		repo := NewActivityRepository(db)
		got, err := repo.List(ctx, domain.ActivityFilter{Status: &active})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no filter returns all", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM activities ORDER BY date DESC`).
			WillReturnRows(sqlmock.NewRows(activityCols))

		repo := NewActivityRepository(db)
		got, err := repo.List(ctx, domain.ActivityFilter{})
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
