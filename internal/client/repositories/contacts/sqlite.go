package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophinvoice/internal/client/models"
	"github.com/dmitrijs2005/gophinvoice/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.Contact, error) {
	c := &models.Contact{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, public_key, pinned_at FROM contacts WHERE username = ?`, username,
	).Scan(&c.Username, &c.PublicKey, &c.PinnedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact[%s]: %w", username, err)
	}
	return c, nil
}

// Pin stores the contact's key, replacing an existing pin.
func (r *SQLiteRepository) Pin(ctx context.Context, c *models.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (username, public_key, pinned_at) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET public_key = excluded.public_key, pinned_at = excluded.pinned_at
	`, c.Username, c.PublicKey, c.PinnedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to pin contact[%s]: %w", c.Username, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete contact[%s]: %w", username, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, public_key, pinned_at FROM contacts ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(&c.Username, &c.PublicKey, &c.PinnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact rows: %w", err)
	}

	return result, nil
}
