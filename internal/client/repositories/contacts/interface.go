// Package contacts stores pinned counterparty identity keys in the local
// SQLite database.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/gophinvoice/internal/client/models"
)

// Repository is the pin store. Get returns (nil, nil) for an unknown user.
type Repository interface {
	Get(ctx context.Context, username string) (*models.Contact, error)
	Pin(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*models.Contact, error)
}
