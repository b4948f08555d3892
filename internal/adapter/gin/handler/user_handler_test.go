package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	usecase "rest-user-service/internal/usecase/user"
	apperrors "rest-user-service/pkg/errors"
)

const testID = "63c9f3dffb7b8b43168c9123"

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	logger := zaptest.NewLogger(t)
	h := NewUserHandler(mockUsecase, logger)

	r := gin.New()
	r.GET("/user", h.ListUsers)
	r.POST("/user", h.CreateUser)
	r.GET("/user/:id", h.GetUser)
	r.PUT("/user/:id", h.UpdateUser)
	r.DELETE("/user/:id", h.DeleteUser)
	return r, mockUsecase
}

func sampleUser() *usecase.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &usecase.User{
		ID:        testID,
		Name:      "John Doe",
		Email:     "john@example.com",
		Age:       30,
		Phone:     "1234567890",
		Address:   "1234 Main St",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func doJSON(r *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListUsers(t *testing.T) {
	t.Run("Success Echoes Window", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("ListUsers", mock.Anything, usecase.ListUsersRequest{Page: 1, PerPage: 2}).
			Return(&usecase.ListUsersResponse{
				Page:       1,
				PerPage:    2,
				TotalItems: 3,
				Users:      []usecase.User{*sampleUser(), *sampleUser()},
			}, nil)

		w := doJSON(r, http.MethodGet, "/user?page=1&perPage=2", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp ListUsersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Page)
		assert.Equal(t, int64(2), resp.PerPage)
		assert.Equal(t, int64(3), resp.TotalItems)
		assert.Len(t, resp.Users, 2)
	})

	t.Run("Missing Page Is 400", func(t *testing.T) {
		r, uc := setupTest(t)

		w := doJSON(r, http.MethodGet, "/user?perPage=10", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Validation Error", resp.Message)
		assert.Contains(t, resp.Errors, "page")

		uc.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
	})

	t.Run("Name Filter Is Forwarded", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("ListUsers", mock.Anything, usecase.ListUsersRequest{Name: "john", Page: 1, PerPage: 10}).
			Return(&usecase.ListUsersResponse{Page: 1, PerPage: 10, Users: []usecase.User{}}, nil)

		w := doJSON(r, http.MethodGet, "/user?name=john&page=1&perPage=10", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: testID}).
			Return(sampleUser(), nil)

		w := doJSON(r, http.MethodGet, "/user/"+testID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, testID, resp.ID)
		assert.Equal(t, "john@example.com", resp.Email)
	})

	t.Run("Malformed Id Is 400 Not 404", func(t *testing.T) {
		r, uc := setupTest(t)

		w := doJSON(r, http.MethodGet, "/user/not-a-valid-object-id-00", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		uc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("Short Hex Id Is 400", func(t *testing.T) {
		r, _ := setupTest(t)

		w := doJSON(r, http.MethodGet, "/user/abc123", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: testID}).
			Return(nil, apperrors.NewNotFoundError("user", "User not found"))

		w := doJSON(r, http.MethodGet, "/user/"+testID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("Success Is 201", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(req usecase.CreateUserRequest) bool {
			return req.Name == "John Doe" && req.Email == "john@example.com" && req.Age == 30
		})).Return(sampleUser(), nil)

		w := doJSON(r, http.MethodPost, "/user", gin.H{
			"name":  "John Doe",
			"email": "john@example.com",
			"age":   30,
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, testID, resp.ID)
	})

	t.Run("Age Zero Is Accepted", func(t *testing.T) {
		r, uc := setupTest(t)

		newborn := sampleUser()
		newborn.Age = 0
		uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(req usecase.CreateUserRequest) bool {
			return req.Age == 0
		})).Return(newborn, nil)

		w := doJSON(r, http.MethodPost, "/user", gin.H{
			"name":  "John Doe",
			"email": "john@example.com",
			"age":   0,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Invalid Email Is 400", func(t *testing.T) {
		r, uc := setupTest(t)

		w := doJSON(r, http.MethodPost, "/user", gin.H{
			"name":  "John Doe",
			"email": "not-an-email",
			"age":   30,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Errors, "email")

		uc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Missing Required Fields Is 400", func(t *testing.T) {
		r, _ := setupTest(t)

		w := doJSON(r, http.MethodPost, "/user", gin.H{"phone": "1234567890"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Errors, "name")
		assert.Contains(t, resp.Errors, "email")
		assert.Contains(t, resp.Errors, "age")
	})

	t.Run("Malformed JSON Is 400", func(t *testing.T) {
		r, _ := setupTest(t)

		req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewBufferString("not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Duplicate Email Is A Single 409", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewAlreadyExistsError("user", "User already exists"))

		w := doJSON(r, http.MethodPost, "/user", gin.H{
			"name":  "John Doe",
			"email": "john@example.com",
			"age":   30,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"message":"User already exists"}`, w.Body.String())
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Partial Patch Carries Only Provided Fields", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("UpdateUser", mock.Anything, mock.MatchedBy(func(req usecase.UpdateUserRequest) bool {
			return req.ID == testID &&
				req.Patch.Age != nil && *req.Patch.Age == 31 &&
				req.Patch.Name == nil && req.Patch.Email == nil &&
				req.Patch.Phone == nil && req.Patch.Address == nil
		})).Return(sampleUser(), nil)

		w := doJSON(r, http.MethodPut, "/user/"+testID, gin.H{"age": 31})
		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Invalid Email In Patch Is 400", func(t *testing.T) {
		r, uc := setupTest(t)

		w := doJSON(r, http.MethodPut, "/user/"+testID, gin.H{"email": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		uc.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Malformed Id Is 400", func(t *testing.T) {
		r, uc := setupTest(t)

		w := doJSON(r, http.MethodPut, "/user/zzz", gin.H{"age": 31})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		uc.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("UpdateUser", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewNotFoundError("user", "User not found"))

		w := doJSON(r, http.MethodPut, "/user/"+testID, gin.H{"age": 31})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
	})

	t.Run("Email Conflict Is 409", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("UpdateUser", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewAlreadyExistsError("email", "Email already exists"))

		w := doJSON(r, http.MethodPut, "/user/"+testID, gin.H{"email": "taken@example.com"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"message":"Email already exists"}`, w.Body.String())
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success Returns Deleted Record", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: testID}).
			Return(sampleUser(), nil)

		w := doJSON(r, http.MethodDelete, "/user/"+testID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, testID, resp.ID)
		assert.Equal(t, "John Doe", resp.Name)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, uc := setupTest(t)

		uc.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: testID}).
			Return(nil, apperrors.NewNotFoundError("user", "User not found"))

		w := doJSON(r, http.MethodDelete, "/user/"+testID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServerError(t *testing.T) {
	r, uc := setupTest(t)

	uc.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: testID}).
		Return(nil, apperrors.NewInternalError("storage unavailable", assert.AnError))

	w := doJSON(r, http.MethodGet, "/user/"+testID, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Server error", resp.Message)
	assert.Contains(t, resp.Error, "storage unavailable")
}
