package refreshtokens

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
	"github.com/stretchr/testify/require"
)

const (
	insertQ        = `^INSERT INTO refresh_tokens \(user_id, token, expires_at\) VALUES \(\$1, \$2, \$3\)$`
	findQ          = `^SELECT id, user_id, token, expires_at, created_at FROM refresh_tokens WHERE token = \$1$`
	deleteQ        = `^DELETE FROM refresh_tokens WHERE token = \$1$`
	deleteExpiredQ = `^DELETE FROM refresh_tokens WHERE user_id = \$1 AND expires_at <= now\(\)$`
)

func newRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

// expiresWithin matches a time.Time argument close to now+d.
type expiresWithin time.Duration

func (d expiresWithin) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	if !ok {
		return false
	}
	want := time.Now().Add(time.Duration(d))
	return ts.After(want.Add(-time.Minute)) && ts.Before(want.Add(time.Minute))
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(insertQ).
		WithArgs("u1", "tok123", expiresWithin(30*time.Minute)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), "u1", "tok123", 30*time.Minute))
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(insertQ).
		WithArgs("u1", "tok123", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), "u1", "tok123", time.Hour)
	require.ErrorContains(t, err, "error storing refresh token: db down")
}

func TestFind(t *testing.T) {
	expires := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	created := expires.Add(-time.Hour)

	tests := []struct {
		name    string
		setup   func(m sqlmock.Sqlmock)
		want    *models.RefreshToken
		wantErr error
		errText string
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(findQ).WithArgs("tok").WillReturnRows(
					sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
						AddRow("rt-1", "u1", "tok", expires, created))
			},
			want: &models.RefreshToken{ID: "rt-1", UserID: "u1", Token: "tok", Expires: expires, CreatedAt: created},
		},
		{
			name: "missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(findQ).WithArgs("tok").WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrorNotFound,
		},
		{
			name: "db error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(findQ).WithArgs("tok").WillReturnError(errors.New("db err"))
			},
			errText: "db error: db err",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setup(mock)

			got, err := repo.Find(context.Background(), "tok")
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.ErrorContains(t, err, tt.errText)
			default:
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		result  driverResult
		wantErr error
		errText string
	}{
		{name: "redeemed", result: driverResult{rows: 1}},
		{name: "already redeemed", result: driverResult{rows: 0}, wantErr: common.ErrorNotFound},
		{name: "db error", result: driverResult{err: errors.New("db err")}, errText: "db error: db err"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.result.expect(mock.ExpectExec(deleteQ).WithArgs("tok"))

			err := repo.Delete(context.Background(), "tok")
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.ErrorContains(t, err, tt.errText)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(deleteExpiredQ).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(deleteExpiredQ).WithArgs("u1").WillReturnError(errors.New("db err"))

	n, err := repo.DeleteExpired(context.Background(), "u1")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	_, err = repo.DeleteExpired(context.Background(), "u1")
	require.ErrorContains(t, err, "db error: db err")
}

type driverResult struct {
	rows int64
	err  error
}

func (d driverResult) expect(e *sqlmock.ExpectedExec) {
	if d.err != nil {
		e.WillReturnError(d.err)
		return
	}
	e.WillReturnResult(sqlmock.NewResult(0, d.rows))
}
