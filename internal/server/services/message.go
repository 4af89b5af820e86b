package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// MessageService provides message-ledger operations. Every operation first
// resolves the acting identity (taken from a validated token) to an existing
// user; an unresolvable identity yields common.ErrorUnauthorized. Access to
// individual messages is then gated by the auth predicates.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewMessageService constructs a MessageService using repositories and server config.
func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: m,
	}
}

// resolveActing maps an acting identity to a stored user, translating an
// unknown username into common.ErrorUnauthorized: a token for a user that
// does not exist must not pass as authenticated.
func (s *MessageService) resolveActing(ctx context.Context, username string) error {
	if username == "" {
		return common.ErrorUnauthorized
	}
	if _, err := s.repomanager.Users(s.db).GetByUsername(ctx, username); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}
	return nil
}

// Create stores a new message from the acting user to toUsername.
// An empty body or recipient yields common.ErrorValidation; an unknown
// recipient yields common.ErrorNotFound. The stored message is returned
// with its assigned id, sent_at = now and read_at unset.
func (s *MessageService) Create(ctx context.Context, actingUsername, toUsername, body string) (*models.Message, error) {
	if err := s.resolveActing(ctx, actingUsername); err != nil {
		return nil, err
	}
	if toUsername == "" || body == "" {
		return nil, common.ErrorValidation
	}

	message := &models.Message{
		FromUsername: actingUsername,
		ToUsername:   toUsername,
		Body:         body,
		SentAt:       time.Now().UTC(),
	}

	// Recipient check and insert share one transaction so the recipient
	// cannot disappear between the two statements.
	var created *models.Message
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetByUsername(ctx, toUsername); err != nil {
			return err
		}
		var err error
		created, err = s.repomanager.Messages(tx).Create(ctx, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns the message with both participants expanded, but only to a
// participant; anyone else gets common.ErrorForbidden.
func (s *MessageService) Get(ctx context.Context, id int64, actingUsername string) (*models.MessageDetail, error) {
	if err := s.resolveActing(ctx, actingUsername); err != nil {
		return nil, err
	}

	message, err := s.repomanager.Messages(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.CanViewMessage(message, actingUsername); err != nil {
		return nil, err
	}

	participants, err := s.repomanager.Users(s.db).ListByUsernames(ctx,
		[]string{message.FromUsername, message.ToUsername})
	if err != nil {
		return nil, err
	}

	detail := &models.MessageDetail{
		ID:     message.ID,
		Body:   message.Body,
		SentAt: message.SentAt,
		ReadAt: message.ReadAt,
	}
	for _, u := range participants {
		if u.Username == message.FromUsername {
			detail.From = u.Summary()
		}
		if u.Username == message.ToUsername {
			detail.To = u.Summary()
		}
	}
	return detail, nil
}

// MarkRead transitions the message to read, once. Only the recipient may do
// this (common.ErrorForbidden otherwise). A second call is a no-op success:
// the transition is a conditional update, so read_at never moves once set,
// even under concurrent calls.
func (s *MessageService) MarkRead(ctx context.Context, id int64, actingUsername string) (*models.Message, error) {
	if err := s.resolveActing(ctx, actingUsername); err != nil {
		return nil, err
	}

	repo := s.repomanager.Messages(s.db)

	message, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.CanMarkRead(message, actingUsername); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated, err := repo.MarkRead(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if updated {
		message.ReadAt = &now
		return message, nil
	}

	// Already read (possibly by a concurrent call); re-read for the stored stamp.
	return repo.Get(ctx, id)
}
