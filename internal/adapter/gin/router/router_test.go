package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"rest-user-service/internal/adapter/gin/handler"
	"rest-user-service/internal/adapter/gin/middleware"
	usecase "rest-user-service/internal/usecase/user"
)

// stubUsecase satisfies user.Usecase for routing tests.
type stubUsecase struct{}

func (s *stubUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.User, error) {
	return &usecase.User{}, nil
}

func (s *stubUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*usecase.User, error) {
	return &usecase.User{}, nil
}

func (s *stubUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.User, error) {
	return &usecase.User{}, nil
}

func (s *stubUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.User, error) {
	return &usecase.User{}, nil
}

func (s *stubUsecase) ListUsers(ctx context.Context, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	return &usecase.ListUsersResponse{Users: []usecase.User{}}, nil
}

func setupRouter(t *testing.T) http.Handler {
	log := zaptest.NewLogger(t)
	h := handler.NewUserHandler(&stubUsecase{}, log)
	return SetupRouter(h, middleware.RateLimiterConfig{}, nil, log)
}

func TestUnmatchedPathIs404(t *testing.T) {
	r := setupRouter(t)

	for _, target := range []string{"/", "/users", "/user/extra/deep", "/api-docs"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", target)
		assert.JSONEq(t, `{"message":"Path not found"}`, w.Body.String(), "path %s", target)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestUserRoutesAreMounted(t *testing.T) {
	r := setupRouter(t)

	// Dispatch reaches the handler pipeline: validation responds 400,
	// not the catch-all 404.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/bad-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
