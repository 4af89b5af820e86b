package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates the user and logs them straight in, returning a
// bearer token.
func (s *HTTPServer) handleRegister(c *gin.Context) {
	ctx := c.Request.Context()

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, common.ErrorValidation)
		return
	}

	profile, err := s.users.Register(ctx, services.RegisterParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	token, err := auth.GenerateToken(profile.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(ctx, "Registered", "username", profile.Username)
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// handleLogin verifies the credentials, stamps last_login_at, and returns a
// bearer token.
func (s *HTTPServer) handleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, common.ErrorValidation)
		return
	}

	ok, err := s.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if !ok {
		s.abortWithError(c, common.ErrorUnauthorized)
		return
	}

	if err := s.users.TouchLogin(ctx, req.Username); err != nil {
		s.abortWithError(c, err)
		return
	}

	token, err := auth.GenerateToken(req.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(ctx, "Logged in", "username", req.Username)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *HTTPServer) handleListUsers(c *gin.Context) {
	result, err := s.users.List(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": result})
}

func (s *HTTPServer) handleGetUser(c *gin.Context) {
	result, err := s.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": result})
}

func (s *HTTPServer) handleMessagesTo(c *gin.Context) {
	result, err := s.users.MessagesTo(c.Request.Context(), c.Param("username"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": result})
}

func (s *HTTPServer) handleMessagesFrom(c *gin.Context) {
	result, err := s.users.MessagesFrom(c.Request.Context(), c.Param("username"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": result})
}

type postMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

// handlePostMessage sends a message from the acting user.
func (s *HTTPServer) handlePostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, common.ErrorValidation)
		return
	}

	message, err := s.messages.Create(ctx, actingUsername(c), req.ToUsername, req.Body)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(ctx, "Message sent",
		"id", message.ID, "from", message.FromUsername, "to", message.ToUsername)
	c.JSON(http.StatusCreated, gin.H{"message": gin.H{
		"id":            message.ID,
		"from_username": message.FromUsername,
		"to_username":   message.ToUsername,
		"body":          message.Body,
		"sent_at":       message.SentAt,
	}})
}

func (s *HTTPServer) handleGetMessage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.abortWithError(c, common.ErrorValidation)
		return
	}

	detail, err := s.messages.Get(c.Request.Context(), id, actingUsername(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": detail})
}

// handleMarkRead marks a message read; only the recipient may do so.
func (s *HTTPServer) handleMarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.abortWithError(c, common.ErrorValidation)
		return
	}

	message, err := s.messages.MarkRead(c.Request.Context(), id, actingUsername(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": gin.H{
		"id":      message.ID,
		"read_at": message.ReadAt,
	}})
}
