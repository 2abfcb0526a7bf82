// Package services contains application services for the GophInvoice client.
// This file defines the authentication service: registration with a fresh
// identity key, login that unlocks it, and liveness checks.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophinvoice/internal/client/client"
	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/cryptox"
)

// ErrCorruptKey means the sealed identity key returned at login does not
// belong to the account's public key.
var ErrCorruptKey = errors.New("identity key does not match account")

// Account is a logged-in user with the unlocked identity key.
type Account struct {
	Username string
	Identity *cryptox.Identity
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create the account and its identity key pair on the server.
//   - Login: authenticate and unseal the identity key with the master key.
//   - Logout: drop server tokens held by the client.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*Account, error)
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

// Register generates a salt and an identity key pair, seals the private key
// with the password-derived master key and sends everything but the master
// key to the server.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	salt := common.GenerateRandByteArray(32)
	masterKey := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(masterKey)

	id, err := cryptox.GenerateIdentity()
	if err != nil {
		return fmt.Errorf("identity key: %w", err)
	}
	defer id.Wipe()

	sealed, nonce, err := cryptox.Seal(masterKey, id.Private)
	if err != nil {
		return fmt.Errorf("seal identity key: %w", err)
	}

	reg := client.Registration{
		Username:  username,
		Salt:      salt,
		Verifier:  cryptox.MakeVerifier(masterKey),
		PublicKey: id.Public,
		SealedKey: sealed,
		KeyNonce:  nonce,
	}

	return a.client.Register(ctx, reg)
}

// Login authenticates with the verifier derived from the password and
// unseals the identity key returned by the server.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*Account, error) {
	salt, err := a.client.GetSalt(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get salt error: %w", err)
	}

	masterKey := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(masterKey)

	sess, err := a.client.Login(ctx, username, cryptox.MakeVerifier(masterKey))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	priv, err := cryptox.Open(masterKey, sess.SealedKey, sess.KeyNonce)
	if err != nil {
		a.client.Logout()
		return nil, fmt.Errorf("unseal identity key: %w", err)
	}

	id, err := cryptox.IdentityFromPrivate(priv)
	common.WipeByteArray(priv)
	if err != nil {
		a.client.Logout()
		return nil, fmt.Errorf("unseal identity key: %w", err)
	}

	if !bytes.Equal(id.Public, sess.PublicKey) {
		id.Wipe()
		a.client.Logout()
		return nil, ErrCorruptKey
	}

	return &Account{Username: username, Identity: id}, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.client.Logout()
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
