package handler

import (
	"errors"
	"io"
	"net/http"

	"user-deletion-service/internal/usecase/user"
	apperrors "user-deletion-service/pkg/errors"
	"user-deletion-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Caller-facing messages.
const (
	MsgUserDeleted         = "User deleted successfully"
	MsgInvalidResponse     = "invalid response from identity provider"
	MsgProviderUnavailable = "identity provider unavailable"
	MsgProviderTimeout     = "identity provider timed out"
	MsgInternal            = "internal server error"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// DeleteUserRequest represents the HTTP request body for deleting a user
type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

// MessageResponse represents a success response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Error is either a message or
// the provider's JSON body.
type ErrorResponse struct {
	Error any `json:"error"`
}

// DeleteUser handles POST /delete_user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req DeleteUserRequest
	// An empty body is treated like a body without user_id.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Invalid delete user request", zap.Error(err))
		h.handleError(c, apperrors.ErrInvalidBody)
		return
	}

	_, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{UserID: req.UserID})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: MsgUserDeleted})
}

// handleError converts usecase errors to HTTP responses. The status comes
// from the error itself; errors without one become apperrors.ErrInternal.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var statuser apperrors.HTTPStatuser
	if !errors.As(err, &statuser) {
		logger.WithContext(c.Request.Context(), h.log).Error("unexpected delete user error", zap.Error(err))
		err, statuser = apperrors.ErrInternal, apperrors.ErrInternal
	}

	var (
		validationErr *apperrors.ValidationError
		providerErr   *apperrors.ProviderError
		invalidErr    *apperrors.InvalidResponseError
		transportErr  *apperrors.TransportError
	)

	var body any = MsgInternal
	switch {
	case errors.As(err, &validationErr):
		body = validationErr.Message
	case errors.As(err, &providerErr):
		body = providerErr.Body
	case errors.As(err, &invalidErr):
		body = MsgInvalidResponse
	case errors.As(err, &transportErr):
		body = MsgProviderUnavailable
		if transportErr.Timeout {
			body = MsgProviderTimeout
		}
	}

	c.JSON(statuser.HTTPStatus(), ErrorResponse{Error: body})
}
