// Package users provides a PostgreSQL-backed repository for user rows.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row. A username collision surfaces as
// common.ErrorConflict via the table's primary-key constraint, so exactly
// one of two racing registrations wins.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
		user.JoinAt, user.LastLoginAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	return user, nil
}

// GetByUsername returns the full user row, including the password hash.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, password, first_name, last_name, phone, join_at, last_login_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone,
		&user.JoinAt, &user.LastLoginAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	return user, nil
}

// List returns all users ordered by username.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT username, password, first_name, last_name, phone, join_at, last_login_at FROM users
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(
			&item.Username, &item.PasswordHash, &item.FirstName, &item.LastName, &item.Phone,
			&item.JoinAt, &item.LastLoginAt,
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

// ListByUsernames returns the user rows for the given usernames in one
// round trip. Usernames with no matching row are simply absent from the
// result.
func (r *PostgresRepository) ListByUsernames(ctx context.Context, usernames []string) ([]*models.User, error) {
	query :=
		`SELECT username, password, first_name, last_name, phone, join_at, last_login_at FROM users
		 WHERE username = ANY($1)
		 `

	rows, err := r.db.QueryContext(ctx, query, usernames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(
			&item.Username, &item.PasswordHash, &item.FirstName, &item.LastName, &item.Phone,
			&item.JoinAt, &item.LastLoginAt,
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

// UpdateLastLogin stamps last_login_at for the user. If the username is
// unknown, it returns common.ErrorNotFound.
func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	query :=
		`UPDATE users SET last_login_at = $2
		 WHERE username = $1
		 `

	res, err := r.db.ExecContext(ctx, query, username, at)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
