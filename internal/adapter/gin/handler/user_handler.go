package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "rest-user-service/internal/domain/user"
	"rest-user-service/internal/usecase/user"
	apperrors "rest-user-service/pkg/errors"
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

// ListUsersQuery represents the query parameters for listing users.
// Page and PerPage are coerced from query strings by the binding.
type ListUsersQuery struct {
	Name    string `form:"name"`
	Page    int64  `form:"page" binding:"required,min=1"`
	PerPage int64  `form:"perPage" binding:"required,min=1"`
}

// IDParam represents the `:id` path parameter, a 24-character hex ObjectID.
type IDParam struct {
	ID string `uri:"id" binding:"required,len=24,hexadecimal"`
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Age     *int   `json:"age" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateUserRequest represents the HTTP request body for a partial update.
// All fields are optional; absent fields are left unchanged.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Age     *int    `json:"age"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Page       int64          `json:"page"`
	PerPage    int64          `json:"perPage"`
	TotalItems int64          `json:"totalItems"`
	Users      []UserResponse `json:"users"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ListUsers handles GET /user
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.log.Warn("invalid list users query", zap.Error(err))
		respondValidationError(c, err)
		return
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Name:    q.Name,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toUserResponse(&resp.Users[i])
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Page:       resp.Page,
		PerPage:    resp.PerPage,
		TotalItems: resp.TotalItems,
		Users:      users,
	})
}

// GetUser handles GET /user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	var p IDParam
	if err := c.ShouldBindUri(&p); err != nil {
		h.log.Warn("invalid user id", zap.String("id", c.Param("id")), zap.Error(err))
		respondValidationError(c, err)
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: p.ID})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// CreateUser handles POST /user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request", zap.Error(err))
		respondValidationError(c, err)
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:    req.Name,
		Email:   req.Email,
		Age:     *req.Age,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(resp))
}

// UpdateUser handles PUT /user/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var p IDParam
	if err := c.ShouldBindUri(&p); err != nil {
		h.log.Warn("invalid user id", zap.String("id", c.Param("id")), zap.Error(err))
		respondValidationError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request", zap.Error(err))
		respondValidationError(c, err)
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID: p.ID,
		Patch: domain.Patch{
			Name:    req.Name,
			Email:   req.Email,
			Age:     req.Age,
			Phone:   req.Phone,
			Address: req.Address,
		},
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// DeleteUser handles DELETE /user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	var p IDParam
	if err := c.ShouldBindUri(&p); err != nil {
		h.log.Warn("invalid user id", zap.String("id", c.Param("id")), zap.Error(err))
		respondValidationError(c, err)
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: p.ID})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// respondValidationError converts a binding error into a 400 response with a
// machine-readable map of field violations.
func respondValidationError(c *gin.Context, err error) {
	fields := map[string]string{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields[strings.ToLower(e.Field())] = fieldErrorMessage(e)
		}
	} else {
		fields["body"] = "malformed request"
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Validation Error",
		"errors":  fields,
	})
}

// fieldErrorMessage converts a single field violation into a human-readable message.
func fieldErrorMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + e.Param()
	case "len":
		return field + " must be exactly " + e.Param() + " characters"
	case "hexadecimal":
		return field + " must be a hexadecimal string"
	default:
		return field + " is invalid"
	}
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Message})
		return
	}

	var conflict *apperrors.AlreadyExistsError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"message": conflict.Message})
		return
	}

	var invalid *apperrors.ValidationError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error",
			"errors":  invalid.Fields,
		})
		return
	}

	h.log.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Server error",
		"error":   err.Error(),
	})
}
