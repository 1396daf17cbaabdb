// Package handler provides HTTP handlers for the users feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/transport/http/dto"
	"user_backend/internal/feature/users/usecase"
)

// UserUsecase defines the user operations the handler depends on.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	CreateUser(ctx context.Context, name, email, password string) (*entity.User, error)
	GetUser(ctx context.Context, id uint) (*entity.User, error)
	UpdateUser(ctx context.Context, id uint, name, email, password string) (*entity.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// UserHandler handles HTTP requests for the /users resource.
type UserHandler struct {
	uc UserUsecase
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List returns every user as a JSON array.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// Create handles POST /users.
//   - 400 when the body is malformed, has unknown fields or fails validation,
//     or the configured hasher rejects the password
//   - 500 when storage rejects the insert
//   - 201 with the serialized user on success
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserReq
	if err := bindStrictJSON(c, &req); err != nil {
		slog.Warn("create user validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request", Details: describeBindError(err)})
		return
	}
	user, err := h.uc.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, "create user", err)
		return
	}
	slog.Info("user created", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := bindUserID(c)
	if !ok {
		return
	}
	user, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Update handles PUT /users/:id. Every field is replaced.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := bindUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserReq
	if err := bindStrictJSON(c, &req); err != nil {
		slog.Warn("update user validation failed", "error", err, "user_id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request", Details: describeBindError(err)})
		return
	}
	user, err := h.uc.UpdateUser(c.Request.Context(), id, req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, "update user", err)
		return
	}
	slog.Info("user updated", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Delete handles DELETE /users/:id and answers 204 on success.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := bindUserID(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondError(c, "delete user", err)
		return
	}
	slog.Info("user deleted", "user_id", id, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

// bindUserID parses the :id path parameter and writes a 400 if it is invalid.
func bindUserID(c *gin.Context) (uint, bool) {
	var uri dto.UserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid user id"})
		return 0, false
	}
	return uri.ID, true
}

// respondError maps usecase errors to HTTP status codes.
// Storage details are logged but never sent to the client.
func (h *UserHandler) respondError(c *gin.Context, op string, err error) {
	if errors.Is(err, usecase.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
		return
	}
	if errors.Is(err, usecase.ErrInvalidPassword) {
		slog.Warn(op+" rejected password", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request", Details: "password: rejected by hasher"})
		return
	}
	slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
}
