// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential checks, login-time
// bookkeeping, and the user-centric message listings.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// RegisterParams is the full set of attributes required to create a user.
type RegisterParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// UserService provides user-directory operations:
// - Register: create users (password is hashed, never stored)
// - Authenticate: verify credentials
// - TouchLogin: stamp last_login_at
// - Get/List: profile reads
// - MessagesFrom/MessagesTo: listings with the counterpart expanded
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bcryptCost  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		bcryptCost:  cfg.BcryptCost,
	}
}

// Register validates the profile, hashes the password, and persists the new
// user with join_at = last_login_at = now. Missing attributes yield
// common.ErrorValidation; a taken username yields common.ErrorConflict.
// The returned profile never contains the password hash.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*models.Profile, error) {
	if params.Username == "" || params.Password == "" ||
		params.FirstName == "" || params.LastName == "" || params.Phone == "" {
		return nil, common.ErrorValidation
	}

	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     params.Username,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
		JoinAt:       now,
		LastLoginAt:  now,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return u.Profile(), nil
}

// Authenticate reports whether the password matches the stored hash.
// An unknown username yields common.ErrorNotFound. No state is mutated;
// callers decide whether to stamp the login time via TouchLogin.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return auth.CheckPassword(password, user.PasswordHash), nil
}

// TouchLogin sets last_login_at = now. Idempotent; an unknown username
// yields common.ErrorNotFound.
func (s *UserService) TouchLogin(ctx context.Context, username string) error {
	repo := s.repomanager.Users(s.db)
	return repo.UpdateLastLogin(ctx, username, time.Now().UTC())
}

// Get returns the user's profile (without the password hash).
func (s *UserService) Get(ctx context.Context, username string) (*models.Profile, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// List returns the public summaries of all users, ordered by username.
func (s *UserService) List(ctx context.Context) ([]*models.UserSummary, error) {
	repo := s.repomanager.Users(s.db)
	users, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		result = append(result, u.Summary())
	}
	return result, nil
}

// MessagesFrom returns every message the user has sent, with the recipient
// expanded to a public summary. The result is an empty (non-nil) slice when
// the user has no messages; an unknown username yields common.ErrorNotFound.
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]*models.SentMessage, error) {
	usersRepo := s.repomanager.Users(s.db)
	if _, err := usersRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	}

	msgs, err := s.repomanager.Messages(s.db).ListFrom(ctx, username)
	if err != nil {
		return nil, err
	}

	counterparts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		counterparts = append(counterparts, m.ToUsername)
	}
	summaries, err := s.lookupSummaries(ctx, counterparts)
	if err != nil {
		return nil, err
	}

	result := make([]*models.SentMessage, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, &models.SentMessage{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			To:     summaries[m.ToUsername],
		})
	}
	return result, nil
}

// MessagesTo returns every message the user has received, with the sender
// expanded to a public summary. Same empty-result and error semantics as
// MessagesFrom.
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]*models.ReceivedMessage, error) {
	usersRepo := s.repomanager.Users(s.db)
	if _, err := usersRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	}

	msgs, err := s.repomanager.Messages(s.db).ListTo(ctx, username)
	if err != nil {
		return nil, err
	}

	counterparts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		counterparts = append(counterparts, m.FromUsername)
	}
	summaries, err := s.lookupSummaries(ctx, counterparts)
	if err != nil {
		return nil, err
	}

	result := make([]*models.ReceivedMessage, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, &models.ReceivedMessage{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			From:   summaries[m.FromUsername],
		})
	}
	return result, nil
}

// lookupSummaries fetches all referenced counterparts in one query and
// indexes them by username for the in-memory join.
func (s *UserService) lookupSummaries(ctx context.Context, usernames []string) (map[string]*models.UserSummary, error) {
	result := make(map[string]*models.UserSummary, len(usernames))
	if len(usernames) == 0 {
		return result, nil
	}

	users, err := s.repomanager.Users(s.db).ListByUsernames(ctx, usernames)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.Username] = u.Summary()
	}
	return result, nil
}
