package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UpdateUserParams carries the updatable user fields. Nil means unchanged.
type UpdateUserParams struct {
	Username *string
	Email    *string
	Password *string
	IsStaff  *bool
}

// UserService exposes profile and admin user management operations.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, username, email, password string, isStaff bool) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	UpdateProfile(ctx context.Context, id uint, params UpdateUserParams) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetUser retrieves a user by ID with caching.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// CreateUser creates a user on behalf of an administrator.
func (s *userService) CreateUser(ctx context.Context, username, email, password string, isStaff bool) (*model.User, error) {
	if err := s.checkUsernameFree(ctx, username, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsStaff:      isStaff,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies an admin update, including the staff flag.
func (s *userService) UpdateUser(ctx context.Context, id uint, params UpdateUserParams) (*model.User, error) {
	return s.applyUpdate(ctx, id, params, true)
}

// UpdateProfile applies a self-service update. The staff flag is immutable
// through this path.
func (s *userService) UpdateProfile(ctx context.Context, id uint, params UpdateUserParams) (*model.User, error) {
	return s.applyUpdate(ctx, id, params, false)
}

func (s *userService) applyUpdate(ctx context.Context, id uint, params UpdateUserParams, allowStaff bool) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if params.Username != nil && *params.Username != user.Username {
		if err := s.checkUsernameFree(ctx, *params.Username, id); err != nil {
			return nil, err
		}
		user.Username = *params.Username
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}
	if allowStaff && params.IsStaff != nil {
		user.IsStaff = *params.IsStaff
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *userService) checkUsernameFree(ctx context.Context, username string, selfID uint) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil && existing != nil && existing.ID != selfID {
		return errors.NewValidationError("username", "a user with that username already exists")
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check user existence: %w", err)
	}
	return nil
}
