// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, identity lookup and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/dbx"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/dmitrijs2005/gophinvoice/internal/server/auth"
	"github.com/dmitrijs2005/gophinvoice/internal/server/config"
	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/repomanager"
)

const (
	saltSize      = 32
	publicKeySize = 32
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Registration is what a client uploads when creating an account. The private
// identity key arrives sealed; the server stores it as-is.
type Registration struct {
	Username  string
	Salt      []byte
	Verifier  []byte
	PublicKey []byte
	SealedKey []byte
	KeyNonce  []byte
}

// LoginResult is a fresh token pair plus the key material the client needs
// to unseal its identity key.
type LoginResult struct {
	TokenPair
	PublicKey []byte
	SealedKey []byte
	KeyNonce  []byte
}

// UserService provides account operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - LookupIdentity: publish public identity keys
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	logger                       logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		logger:                       l.With("module", "users"),
	}
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired,
// unknown or already redeemed ones ErrorUnauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// redeemed concurrently
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Register creates a new account. A taken username yields ErrorAlreadyExists,
// malformed key material ErrorValidation.
func (s *UserService) Register(ctx context.Context, r Registration) (*models.User, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	user := &models.User{
		UserName:  r.Username,
		Salt:      r.Salt,
		Verifier:  r.Verifier,
		PublicKey: r.PublicKey,
		SealedKey: r.SealedKey,
		KeyNonce:  r.KeyNonce,
	}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

func (r Registration) validate() error {
	switch {
	case r.Username == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case len(r.Salt) == 0 || len(r.Verifier) == 0:
		return fmt.Errorf("%w: salt and verifier are required", common.ErrorValidation)
	case len(r.PublicKey) != publicKeySize:
		return fmt.Errorf("%w: public key must be %d bytes", common.ErrorValidation, publicKeySize)
	case len(r.SealedKey) == 0 || len(r.KeyNonce) == 0:
		return fmt.Errorf("%w: sealed key and nonce are required", common.ErrorValidation)
	}
	return nil
}

// GetSalt returns the user's stored salt. An absent user gets a stable salt
// derived from the server secret, so repeated calls look like a real account.
func (s *UserService) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return s.decoySalt(userName), nil
		}
		return nil, common.ErrorInternal
	}
	return user.Salt, nil
}

// Login verifies the provided verifierCandidate against the stored verifier and,
// on success, returns new tokens and the sealed identity key.
func (s *UserService) Login(ctx context.Context, userName string, verifierCandidate []byte) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !s.checkVerifier(user.Verifier, verifierCandidate) {
		return nil, common.ErrorUnauthorized
	}

	if n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "could not prune refresh tokens", "user_id", user.ID, "error", err)
	} else if n > 0 {
		s.logger.Debug(ctx, "pruned refresh tokens", "user_id", user.ID, "count", n)
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		TokenPair: *pair,
		PublicKey: user.PublicKey,
		SealedKey: user.SealedKey,
		KeyNonce:  user.KeyNonce,
	}, nil
}

// LookupIdentity returns the public identity key registered for userName.
func (s *UserService) LookupIdentity(ctx context.Context, userName string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error looking up identity: %w", err)
	}
	return user.PublicKey, nil
}

// --- helpers below ---

func (s *UserService) decoySalt(userName string) []byte {
	mac := hmac.New(sha256.New, s.jwtSecret)
	mac.Write([]byte("salt|" + userName))
	return mac.Sum(nil)[:saltSize]
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) checkVerifier(verifier []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
