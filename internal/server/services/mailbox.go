package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophinvoice/internal/common"
	"github.com/dmitrijs2005/gophinvoice/internal/dbx"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
	"github.com/dmitrijs2005/gophinvoice/internal/server/blobstore"
	"github.com/dmitrijs2005/gophinvoice/internal/server/config"
	"github.com/dmitrijs2005/gophinvoice/internal/server/metrics"
	"github.com/dmitrijs2005/gophinvoice/internal/server/models"
	"github.com/dmitrijs2005/gophinvoice/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MailboxService stores opaque envelopes per recipient and channel. Bodies
// are never inspected.
type MailboxService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	inlineLimit int
	logger      logging.Logger
	now         func() time.Time
}

// NewMailboxService wires the mailbox. blobs may be nil, in which case every
// body is kept inline.
func NewMailboxService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, cfg *config.Config, l logging.Logger) *MailboxService {
	return &MailboxService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		inlineLimit: cfg.InlineBodyLimit,
		logger:      l.With("module", "mailbox"),
		now:         time.Now,
	}
}

// Send drops body into recipient's inbox on channel and returns the new
// message id. An unknown recipient yields ErrorNotFound.
func (s *MailboxService) Send(ctx context.Context, senderID, channel, recipient, body string) (string, error) {
	if channel == "" || recipient == "" || body == "" {
		return "", fmt.Errorf("%w: channel, recipient and body are required", common.ErrorValidation)
	}

	users := s.repomanager.Users(s.db)
	rcpt, err := users.GetUserByLogin(ctx, recipient)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("recipient %q: %w", recipient, common.ErrorNotFound)
		}
		return "", fmt.Errorf("error resolving recipient: %w", err)
	}
	sender, err := users.GetUserByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error resolving sender: %w", err)
	}

	m := &models.Message{
		ID:          uuid.NewString(),
		RecipientID: rcpt.ID,
		Sender:      sender.UserName,
		Channel:     channel,
		Body:        body,
	}

	if s.blobs != nil && len(body) > s.inlineLimit {
		key := blobstore.NewKey(s.now())
		if err := s.blobs.Put(ctx, key, []byte(body)); err != nil {
			return "", fmt.Errorf("error offloading body: %w", err)
		}
		m.Body, m.BlobKey = "", key
		metrics.BodyOffloaded()
	}

	if err := s.repomanager.Messages(s.db).Create(ctx, m); err != nil {
		if m.BlobKey != "" {
			s.dropBlob(ctx, m.BlobKey)
		}
		return "", fmt.Errorf("error storing message: %w", err)
	}

	metrics.MessagesSent(1)
	s.logger.Debug(ctx, "message stored", "id", m.ID, "channel", channel, "offloaded", m.BlobKey != "")
	return m.ID, nil
}

// List returns the caller's pending messages on channel, oldest first, with
// offloaded bodies fetched back. A message whose object has vanished is
// skipped and logged.
func (s *MailboxService) List(ctx context.Context, userID, channel string) ([]*models.Message, error) {
	msgs, err := s.repomanager.Messages(s.db).ListForRecipient(ctx, userID, channel)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}

	out := make([]*models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.BlobKey != "" {
			if s.blobs == nil {
				s.logger.Warn(ctx, "offloaded message without blob store", "id", m.ID)
				continue
			}
			data, err := s.blobs.Get(ctx, m.BlobKey)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					s.logger.Warn(ctx, "message body missing", "id", m.ID, "key", m.BlobKey)
					continue
				}
				return nil, fmt.Errorf("error fetching body: %w", err)
			}
			m.Body = string(data)
		}
		out = append(out, m)
	}

	metrics.MessagesListed(len(out))
	return out, nil
}

// Ack deletes the caller's messages with the given ids and reports how many
// were removed. Unknown, foreign and malformed ids are ignored, so repeating
// an acknowledgement is harmless.
func (s *MailboxService) Ack(ctx context.Context, userID string, ids []string) (int, error) {
	var keys []string
	deleted := 0

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Messages(tx)
		for _, id := range ids {
			if _, err := uuid.Parse(id); err != nil {
				continue
			}
			key, err := repo.Delete(ctx, userID, id)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					continue
				}
				return fmt.Errorf("error deleting message: %w", err)
			}
			deleted++
			if key != "" {
				keys = append(keys, key)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, k := range keys {
		s.dropBlob(ctx, k)
	}

	metrics.MessagesAcknowledged(deleted)
	return deleted, nil
}

func (s *MailboxService) dropBlob(ctx context.Context, key string) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "orphaned message body", "key", key, "error", err)
	}
}
