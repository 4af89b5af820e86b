package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListByUsernames(ctx context.Context, usernames []string) ([]*models.User, error)
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
}
