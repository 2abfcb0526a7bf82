// Package messages stores mailbox envelopes addressed to users.
package messages

import (
	"context"

	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
)

// Repository defines inbox storage.
type Repository interface {
	// Create stores m and fills in CreatedAt. m.ID is assigned by the caller.
	Create(ctx context.Context, m *models.Message) error

	// ListForRecipient returns the recipient's messages on channel, oldest first.
	ListForRecipient(ctx context.Context, recipientID, channel string) ([]*models.Message, error)

	// Delete removes one of the recipient's messages and returns its blob key,
	// empty when the body was stored inline. A message that does not exist or
	// belongs to someone else yields a not-found error.
	Delete(ctx context.Context, recipientID, id string) (string, error)
}
