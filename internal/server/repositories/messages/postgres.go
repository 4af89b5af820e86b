// Package messages provides a PostgreSQL-backed repository for message rows.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new message row and fills in the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {

	query :=
		`INSERT INTO messages (from_username, to_username, body, sent_at)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		message.FromUsername, message.ToUsername, message.Body, message.SentAt).Scan(&message.ID)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	return message, nil
}

// Get returns the message row for the given id.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`SELECT id, from_username, to_username, body, sent_at, read_at FROM messages
		 WHERE id = $1
		 `

	message := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&message.ID, &message.FromUsername, &message.ToUsername, &message.Body,
		&message.SentAt, &message.ReadAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	return message, nil
}

// MarkRead sets read_at only if it is still null, so concurrent calls
// cannot move or duplicate the transition. Zero rows affected means either
// "already read" or "no such message"; the caller disambiguates with Get.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64, at time.Time) (bool, error) {
	query :=
		`UPDATE messages SET read_at = $2
		 WHERE id = $1 AND read_at IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	return n == 1, nil
}

// ListFrom returns all messages sent by the user, oldest first.
func (r *PostgresRepository) ListFrom(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT id, from_username, to_username, body, sent_at, read_at FROM messages
		 WHERE from_username = $1
		 ORDER BY id
		 `
	return r.list(ctx, query, username)
}

// ListTo returns all messages received by the user, oldest first.
func (r *PostgresRepository) ListTo(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT id, from_username, to_username, body, sent_at, read_at FROM messages
		 WHERE to_username = $1
		 ORDER BY id
		 `
	return r.list(ctx, query, username)
}

func (r *PostgresRepository) list(ctx context.Context, query string, username string) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		var item models.Message
		if err := rows.Scan(
			&item.ID, &item.FromUsername, &item.ToUsername, &item.Body,
			&item.SentAt, &item.ReadAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	return result, nil
}
