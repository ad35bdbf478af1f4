package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-service/internal/auth"
	"blog-service/internal/domain"
	"blog-service/internal/metrics"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,notblank,max=64"`
	Email    string `json:"email" binding:"required,notblank,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
		h.respondBadRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", failureReason(err)).Inc()
		h.respondError(c, err)
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_input").Inc()
		h.respondBadRequest(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", failureReason(err)).Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.logger.WithField("request_id", c.GetString(ctxRequestID)).Warn("failed authentication attempt")
		}
		h.respondError(c, err)
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

// deleteMe removes the caller's account together with all of their posts.
func (h *Handler) deleteMe(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), currentUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokens.TTL() / time.Second),
		User:        userToResponse(*user),
	})
}

// requireAuth validates the bearer token and stores the caller's identity in
// the gin context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid authorization header"})
			return
		}

		claims, err := h.tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			h.respondError(c, err)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			h.respondError(c, auth.ErrInvalidToken)
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUsername, claims.Username)
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestID),
			"user_id":    userID,
		}).Debug("authenticated request")
		c.Next()
	}
}

// currentUserID returns the identity set by requireAuth.
func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ctxUserID)
	userID, _ := id.(uuid.UUID)
	return userID
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339Nano),
	}
}
