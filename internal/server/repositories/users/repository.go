// Package users stores accounts together with their published identity key
// and the sealed private half.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
)

// Repository lookups return common.ErrorNotFound for unknown accounts.
type Repository interface {
	// Create inserts user and returns it with ID set. A taken username
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
