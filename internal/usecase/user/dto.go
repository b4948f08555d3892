package user

import (
	"time"

	domain "rest-user-service/internal/domain/user"
)

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name    string
	Email   string
	Age     int
	Phone   string
	Address string
}

// UpdateUserRequest represents the request payload for a partial user update.
// Only the fields present in Patch are applied.
type UpdateUserRequest struct {
	ID    string
	Patch domain.Patch
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// ListUsersRequest represents the request payload for listing users.
// Name filters by case-insensitive substring; Page and PerPage window the result.
type ListUsersRequest struct {
	Name    string
	Page    int64
	PerPage int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Page       int64
	PerPage    int64
	TotalItems int64
	Users      []User
}

// User represents a user DTO for API responses.
type User struct {
	ID        string
	Name      string
	Email     string
	Age       int
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func fromDomain(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
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
