package user

import (
	"context"

	"go.uber.org/zap"

	domain "rest-user-service/internal/domain/user"
	apperrors "rest-user-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer so different implementations (MongoDB,
// a caching decorator) can be used interchangeably.
type Repository interface {
	List(ctx context.Context, name string, page domain.Page) ([]domain.User, int64, error) // List a page of users plus the total count matching the filter
	GetByID(ctx context.Context, id string) (*domain.User, error)                         // Retrieve user by ID
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)             // Check email uniqueness, optionally excluding one record
	Insert(ctx context.Context, u *domain.User) (*domain.User, error)                     // Insert a new user, assigning ID and timestamps
	UpdateByID(ctx context.Context, id string, p domain.Patch) (*domain.User, error)      // Apply a partial update, refreshing UpdatedAt
	DeleteByID(ctx context.Context, id string) (*domain.User, error)                      // Delete user by ID, returning the deleted record
}

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log}
}

// CreateUser creates a new user after checking email uniqueness.
// A duplicate email yields a conflict error and no insert is performed.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	s.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	exists, err := s.repo.ExistsByEmail(ctx, in.Email, "")
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if exists {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewAlreadyExistsError("user", "User already exists")
	}

	created, err := s.repo.Insert(ctx, &domain.User{
		Name:    in.Name,
		Email:   in.Email,
		Age:     in.Age,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.log.Info("user created", zap.String("id", created.ID))
	return fromDomain(created), nil
}

// UpdateUser applies a partial update after checking email uniqueness against
// other records when the patch carries an email.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	s.log.Info("updating user", zap.String("id", in.ID))

	if in.Patch.Email != nil {
		exists, err := s.repo.ExistsByEmail(ctx, *in.Patch.Email, in.ID)
		if err != nil {
			s.log.Error("failed to check existing email", zap.String("email", *in.Patch.Email), zap.Error(err))
			return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if exists {
			s.log.Warn("email already exists", zap.String("email", *in.Patch.Email), zap.String("id", in.ID))
			return nil, apperrors.NewAlreadyExistsError("email", "Email already exists")
		}
	}

	updated, err := s.repo.UpdateByID(ctx, in.ID, in.Patch)
	if err != nil {
		s.log.Warn("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("user updated", zap.String("id", updated.ID))
	return fromDomain(updated), nil
}

// DeleteUser deletes a user by ID and returns the deleted record.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*User, error) {
	s.log.Info("deleting user", zap.String("id", in.ID))

	deleted, err := s.repo.DeleteByID(ctx, in.ID)
	if err != nil {
		s.log.Warn("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return fromDomain(deleted), nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Warn("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return fromDomain(u), nil
}

// ListUsers retrieves a paginated list of users with an optional
// case-insensitive name filter. Always succeeds with an empty page when
// nothing matches.
func (s *Service) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PerPage <= 0 {
		in.PerPage = 10
	}
	if in.PerPage > 100 {
		in.PerPage = 100
	}

	s.log.Info("listing users", zap.String("name", in.Name), zap.Int64("page", in.Page), zap.Int64("per_page", in.PerPage))

	page := domain.Page{Number: in.Page, PerPage: in.PerPage}
	domainUsers, total, err := s.repo.List(ctx, in.Name, page)
	if err != nil {
		s.log.Error("failed to list users", zap.String("name", in.Name), zap.Int64("page", in.Page), zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = *fromDomain(&domainUsers[i])
	}

	return &ListUsersResponse{
		Page:       in.Page,
		PerPage:    in.PerPage,
		TotalItems: total,
		Users:      users,
	}, nil
}
