package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		existing  *model.User
		findErr   error
		createErr error
		wantField string
		wantErr   bool
	}{
		{
			name:     "success",
			username: "alice",
			findErr:  gorm.ErrRecordNotFound,
		},
		{
			name:      "username already taken",
			username:  "alice",
			existing:  &model.User{ID: 1, Username: "alice"},
			wantField: "username",
			wantErr:   true,
		},
		{
			name:      "repository failure",
			username:  "alice",
			findErr:   gorm.ErrRecordNotFound,
			createErr: assert.AnError,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			repo.On("FindByUsername", mock.Anything, tt.username).Return(tt.existing, tt.findErr)
			if tt.existing == nil {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(tt.createErr)
			}

			svc := NewAuthService(repo, auth.NewJWTService("test-secret"), new(MockTokenStore))
			user, err := svc.Register(context.Background(), tt.username, "alice@example.com", "longenough1")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantField != "" {
					var vErr *errors.ValidationError
					assert.ErrorAs(t, err, &vErr)
					assert.Contains(t, vErr.Fields, tt.wantField)
				}
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.username, user.Username)
			assert.False(t, user.IsStaff)
			// The stored hash must verify against the original password.
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough1")))
			assert.NotEqual(t, "longenough1", user.PasswordHash)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcryptCost)
	assert.NoError(t, err)

	stored := &model.User{ID: 7, Username: "bob", PasswordHash: string(hash), IsStaff: true}

	tests := []struct {
		name     string
		username string
		password string
		found    *model.User
		findErr  error
		wantErr  error
	}{
		{
			name:     "success",
			username: "bob",
			password: "correct-password",
			found:    stored,
		},
		{
			name:     "wrong password",
			username: "bob",
			password: "wrong-password",
			found:    stored,
			wantErr:  errors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "correct-password",
			findErr:  gorm.ErrRecordNotFound,
			wantErr:  errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			repo.On("FindByUsername", mock.Anything, tt.username).Return(tt.found, tt.findErr)

			tokenStore := new(MockTokenStore)
			tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "bob", auth.RefreshTokenExpiry).Return(nil)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(repo, jwtService, tokenStore)

			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "bob", user.Username)
			assert.NotEmpty(t, accessToken)
			assert.NotEmpty(t, refreshToken)

			// Access token carries identity and the staff flag.
			claims, err := jwtService.ValidateToken(accessToken)
			assert.NoError(t, err)
			assert.Equal(t, uint(7), claims.UserID)
			assert.Equal(t, "bob", claims.Username)
			assert.True(t, claims.IsStaff)

			tokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "bob")
	assert.NoError(t, err)

	t.Run("success re-reads staff flag", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Username: "bob", IsStaff: false}, nil)

		tokenStore := new(MockTokenStore)
		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "bob", nil)

		svc := NewAuthService(repo, jwtService, tokenStore)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.NoError(t, err)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.False(t, claims.IsStaff)
	})

	t.Run("revoked token", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)

		svc := NewAuthService(repo, jwtService, tokenStore)
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := svc.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "bob")
	assert.NoError(t, err)

	tokenStore := new(MockTokenStore)
	tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)
	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	tokenStore.AssertExpectations(t)
}
