package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/dbx"
	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, recipient_id, sender, channel, body, blob_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, m.ID, m.RecipientID, m.Sender, m.Channel, m.Body, m.BlobKey).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForRecipient(ctx context.Context, recipientID, channel string) ([]*models.Message, error) {
	query := `
		SELECT id, recipient_id, sender, channel, body, blob_key, created_at
		FROM messages
		WHERE recipient_id = $1 AND channel = $2
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, recipientID, channel)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.RecipientID, &m.Sender, &m.Channel, &m.Body, &m.BlobKey, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, recipientID, id string) (string, error) {
	query := `
		DELETE FROM messages
		WHERE id = $1 AND recipient_id = $2
		RETURNING blob_key
	`
	var blobKey string
	if err := r.db.QueryRowContext(ctx, query, id, recipientID).Scan(&blobKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return blobKey, nil
}
