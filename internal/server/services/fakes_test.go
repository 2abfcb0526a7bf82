package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/dbx"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/dmitrijs2005/gophinvoice/internal/server/config"
	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		InlineBodyLimit:              16,
	}
}

// fakeUsersRepo keeps accounts in memory. err, when set, fails every call.
type fakeUsersRepo struct {
	byLogin map[string]*models.User
	err     error
	created *models.User
}

func newFakeUsers(us ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byLogin: map[string]*models.User{}}
	for _, u := range us {
		f.byLogin[u.UserName] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byLogin[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "id-" + u.UserName
	f.byLogin[u.UserName] = u
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byLogin {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error
	created   []string
	pruned    int
	pruneErr  error
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID string, token string, _ time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, userID+":"+token)
	return nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(context.Context, string) error { return f.delErr }

func (f *fakeRefreshRepo) DeleteExpired(context.Context, string) (int64, error) {
	f.pruned++
	return 0, f.pruneErr
}

// fakeMessagesRepo keeps messages in insertion order.
type fakeMessagesRepo struct {
	rows      []*models.Message
	createErr error
	listErr   error
	deleteErr error
}

func (f *fakeMessagesRepo) Create(_ context.Context, m *models.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.CreatedAt = time.Date(2025, 1, 1, 0, 0, len(f.rows), 0, time.UTC)
	cp := *m
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeMessagesRepo) ListForRecipient(_ context.Context, recipientID, channel string) ([]*models.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Message
	for _, m := range f.rows {
		if m.RecipientID == recipientID && m.Channel == channel {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessagesRepo) Delete(_ context.Context, recipientID, id string) (string, error) {
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	for i, m := range f.rows {
		if m.ID == id && m.RecipientID == recipientID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return m.BlobKey, nil
		}
	}
	return "", common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	m *fakeMessagesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Messages(dbx.DBTX) messages.Repository           { return m.m }

type fakeBlobs struct {
	objects map[string][]byte
	putErr  error
	getErr  error
	delErr  error
	deleted []string
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{objects: map[string][]byte{}} }

func (f *fakeBlobs) Put(_ context.Context, key string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, key)
	return nil
}
