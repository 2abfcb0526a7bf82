package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophinvoice/internal/client/client"
	"github.com/dmitrijs2005/gophinvoice/internal/cryptox"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client; it remembers the last registration
// and answers Login with it.
type fakeClient struct {
	CloseErr    error
	RegisterErr error
	GetSaltErr  error
	LoginErr    error
	PingErr     error

	reg        client.Registration
	registered bool
	loggedOut  bool

	LastLoginUser string
	LastLoginKey  []byte
}

func (f *fakeClient) Close() error                   { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }
func (f *fakeClient) Logout()                        { f.loggedOut = true }

func (f *fakeClient) Register(ctx context.Context, reg client.Registration) error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.reg = reg
	f.registered = true
	return nil
}

func (f *fakeClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	if f.GetSaltErr != nil {
		return nil, f.GetSaltErr
	}
	if !f.registered || username != f.reg.Username {
		return nil, client.ErrNotFound
	}
	return f.reg.Salt, nil
}

func (f *fakeClient) Login(ctx context.Context, username string, verifier []byte) (*client.Session, error) {
	f.LastLoginUser = username
	f.LastLoginKey = append([]byte(nil), verifier...)
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if string(verifier) != string(f.reg.Verifier) {
		return nil, client.ErrUnauthorized
	}
	return &client.Session{PublicKey: f.reg.PublicKey, SealedKey: f.reg.SealedKey, KeyNonce: f.reg.KeyNonce}, nil
}

func (f *fakeClient) LookupIdentity(ctx context.Context, username string) ([]byte, error) {
	return nil, client.ErrNotFound
}

func (f *fakeClient) Send(ctx context.Context, channel, recipient, body string) (string, error) {
	return "", nil
}

func (f *fakeClient) List(ctx context.Context, channel string) ([]client.Message, error) {
	return nil, nil
}

func (f *fakeClient) Acknowledge(ctx context.Context, ids []string) error { return nil }

func TestRegisterThenLogin_UnsealsIdentity(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", []byte("pass")))

	require.Equal(t, "alice", fc.reg.Username)
	require.Len(t, fc.reg.Salt, 32)
	require.Len(t, fc.reg.PublicKey, cryptox.KeySize)
	require.NotEmpty(t, fc.reg.SealedKey)
	require.NotEmpty(t, fc.reg.KeyNonce)

	expected := cryptox.MakeVerifier(cryptox.DeriveMasterKey([]byte("pass"), fc.reg.Salt))
	require.Equal(t, expected, fc.reg.Verifier)

	acc, err := svc.Login(ctx, "alice", []byte("pass"))
	require.NoError(t, err)
	require.Equal(t, "alice", acc.Username)
	require.Equal(t, fc.reg.PublicKey, acc.Identity.Public)
	require.Equal(t, expected, fc.LastLoginKey)

	again, err := cryptox.IdentityFromPrivate(acc.Identity.Private)
	require.NoError(t, err)
	require.Equal(t, acc.Identity.Public, again.Public)
}

func TestLogin_WrongPassword(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", []byte("pass")))

	_, err := svc.Login(ctx, "alice", []byte("nope"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.True(t, strings.HasPrefix(err.Error(), "login error:"))
}

func TestLogin_GetSaltError_Wrapped(t *testing.T) {
	fc := &fakeClient{GetSaltErr: errors.New("network down")}
	svc := NewAuthService(fc)

	_, err := svc.Login(context.Background(), "u", []byte("p"))
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "get salt error:"))
}

func TestLogin_TamperedSealedKey(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", []byte("pass")))
	fc.reg.SealedKey[0] ^= 0xff

	_, err := svc.Login(ctx, "alice", []byte("pass"))
	require.ErrorIs(t, err, cryptox.ErrOpen)
	require.True(t, fc.loggedOut)
}

func TestLogin_PublicKeyMismatch(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", []byte("pass")))
	other, err := cryptox.GenerateIdentity()
	require.NoError(t, err)
	fc.reg.PublicKey = other.Public

	_, err = svc.Login(ctx, "alice", []byte("pass"))
	require.ErrorIs(t, err, ErrCorruptKey)
	require.True(t, fc.loggedOut)
}

func TestRegister_ErrorFromClient(t *testing.T) {
	fc := &fakeClient{RegisterErr: client.ErrConflict}
	svc := NewAuthService(fc)

	err := svc.Register(context.Background(), "u", []byte("p"))
	require.ErrorIs(t, err, client.ErrConflict)
}

func TestPing_Close_Logout_Delegations(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc)
	ctx := context.Background()

	require.NoError(t, svc.Ping(ctx))
	require.NoError(t, svc.Close(ctx))
	svc.Logout(ctx)
	require.True(t, fc.loggedOut)

	fc.PingErr = client.ErrUnavailable
	require.ErrorIs(t, svc.Ping(ctx), client.ErrUnavailable)
}
