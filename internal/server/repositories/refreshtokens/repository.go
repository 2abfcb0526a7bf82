// Package refreshtokens stores the server side of rotating refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid for validity from now.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound for an unknown token.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete redeems token. A token that is already gone reports
	// common.ErrorNotFound, so concurrent refreshes cannot both succeed.
	Delete(ctx context.Context, token string) error

	// DeleteExpired drops userID's lapsed tokens and reports how many went.
	DeleteExpired(ctx context.Context, userID string) (int64, error)
}
