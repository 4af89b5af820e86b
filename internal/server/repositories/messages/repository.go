package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	Get(ctx context.Context, id int64) (*models.Message, error)
	// MarkRead performs the unread→read transition if the message is still
	// unread. It reports whether this call made the transition.
	MarkRead(ctx context.Context, id int64, at time.Time) (bool, error)
	ListFrom(ctx context.Context, username string) ([]*models.Message, error)
	ListTo(ctx context.Context, username string) ([]*models.Message, error)
}
