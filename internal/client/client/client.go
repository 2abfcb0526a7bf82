package client

import (
	"context"
)

// Session is the key material returned by a successful login.
type Session struct {
	PublicKey []byte
	SealedKey []byte
	KeyNonce  []byte
}

// Registration is everything the server stores for a new account.
type Registration struct {
	Username  string
	Salt      []byte
	Verifier  []byte
	PublicKey []byte
	SealedKey []byte
	KeyNonce  []byte
}

// Message is an inbound message as listed by the server.
type Message struct {
	ID     string
	Sender string
	Body   string
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, reg Registration) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (*Session, error)
	Logout()
	LookupIdentity(ctx context.Context, username string) ([]byte, error)
	Send(ctx context.Context, channel, recipient, body string) (string, error)
	List(ctx context.Context, channel string) ([]Message, error)
	Acknowledge(ctx context.Context, ids []string) error
}
