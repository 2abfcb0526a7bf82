package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
	"github.com/dmitrijs2005/gophinvoice/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeUser struct {
	regIn  services.Registration
	regErr error

	saltResp []byte
	saltErr  error

	loginResp *services.LoginResult
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	lookupResp []byte
	lookupErr  error
}

func (f *fakeUser) Register(_ context.Context, r services.Registration) (*models.User, error) {
	f.regIn = r
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.User{ID: "42", UserName: r.Username}, nil
}

func (f *fakeUser) GetSalt(context.Context, string) ([]byte, error) {
	return f.saltResp, f.saltErr
}

func (f *fakeUser) Login(context.Context, string, []byte) (*services.LoginResult, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeUser) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeUser) LookupIdentity(context.Context, string) ([]byte, error) {
	return f.lookupResp, f.lookupErr
}

type sent struct {
	sender, channel, recipient, body string
}

type fakeMailbox struct {
	sent    []sent
	sendErr error

	listUser string
	listOut  []*models.Message
	listErr  error

	ackUser string
	ackIDs  []string
	ackErr  error
}

func (f *fakeMailbox) Send(_ context.Context, senderID, channel, recipient, body string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, sent{senderID, channel, recipient, body})
	return "m-1", nil
}

func (f *fakeMailbox) List(_ context.Context, userID, _ string) ([]*models.Message, error) {
	f.listUser = userID
	return f.listOut, f.listErr
}

func (f *fakeMailbox) Ack(_ context.Context, userID string, ids []string) (int, error) {
	f.ackUser, f.ackIDs = userID, ids
	if f.ackErr != nil {
		return 0, f.ackErr
	}
	return len(ids), nil
}

func newServer(u userSvc, m mailboxSvc) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, u, m, "k")
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), UserIDKey, userID)
}
