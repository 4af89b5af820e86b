// Package httpapi exposes the directory and ledger services over a REST API.
// It is a thin layer: handlers bind JSON, call the services, and translate
// taxonomy errors into HTTP status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the directory surface the HTTP layer depends on.
// *services.UserService satisfies it; tests substitute fakes.
type UserService interface {
	Register(ctx context.Context, params services.RegisterParams) (*models.Profile, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
	TouchLogin(ctx context.Context, username string) error
	Get(ctx context.Context, username string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.UserSummary, error)
	MessagesFrom(ctx context.Context, username string) ([]*models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]*models.ReceivedMessage, error)
}

// MessageService is the ledger surface the HTTP layer depends on.
type MessageService interface {
	Create(ctx context.Context, actingUsername, toUsername, body string) (*models.Message, error)
	Get(ctx context.Context, id int64, actingUsername string) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, id int64, actingUsername string) (*models.Message, error)
}

type HTTPServer struct {
	address       string
	users         UserService
	messages      MessageService
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ms MessageService, secretKey string, tokenValidity time.Duration) (*HTTPServer, error) {
	return &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		users:         us,
		messages:      ms,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
	}, nil
}

// Router builds the gin engine with all routes attached. Split out from Run
// so handler tests can drive it with httptest.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestIDMiddleware())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
	}

	usersGroup := r.Group("/users", s.accessTokenMiddleware())
	{
		usersGroup.GET("", s.handleListUsers)
		usersGroup.GET("/:username", s.handleGetUser)
		usersGroup.GET("/:username/to", s.handleMessagesTo)
		usersGroup.GET("/:username/from", s.handleMessagesFrom)
	}

	messagesGroup := r.Group("/messages", s.accessTokenMiddleware())
	{
		messagesGroup.POST("", s.handlePostMessage)
		messagesGroup.GET("/:id", s.handleGetMessage)
		messagesGroup.POST("/:id/read", s.handleMarkRead)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
