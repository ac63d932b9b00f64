package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kittycareapp/kittycare-server/internal/lib/jwt"
	"github.com/kittycareapp/kittycare-server/internal/lib/password"
	"github.com/kittycareapp/kittycare-server/internal/models"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type AnalyticsMock struct{ mock.Mock }

func (m *AnalyticsMock) CreateProfile(ctx context.Context, email, firstName, lastName string, phoneNumber *string) error {
	return m.Called(ctx, email, firstName, lastName, phoneNumber).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newAuthService(t *testing.T) (*AuthService, *UsersMock, *AnalyticsMock) {
	t.Helper()
	users := new(UsersMock)
	analytics := new(AnalyticsMock)
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return NewAuthService(users, maker, analytics, newNoopLogger()), users, analytics
}

func TestAuthService_Register(t *testing.T) {
	req := models.DummyUser{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "Sup3rSecret!",
	}

	t.Run("success register", func(t *testing.T) {
		svc, users, analytics := newAuthService(t)
		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == req.Email && u.PasswordHash != "" && u.PasswordHash != req.Password
		})).Return("user-1", nil).Once()
		analytics.On("CreateProfile", mock.Anything, req.Email, "Jane", "Doe", (*string)(nil)).Return(nil).Once()

		token, expiresIn, err := svc.Register(context.Background(), req)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, 3600, expiresIn)
		users.AssertExpectations(t)
	})

	t.Run("weak password", func(t *testing.T) {
		svc, users, _ := newAuthService(t)
		weak := req
		weak.Password = "short"

		_, _, err := svc.Register(context.Background(), weak)

		assert.ErrorIs(t, err, password.ErrWeakPassword)
		users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("email already taken", func(t *testing.T) {
		svc, users, _ := newAuthService(t)
		users.On("CreateUser", mock.Anything, mock.Anything).
			Return("", repository.ErrEmailTaken).Once()

		_, _, err := svc.Register(context.Background(), req)

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("analytics failure does not fail register", func(t *testing.T) {
		svc, users, analytics := newAuthService(t)
		users.On("CreateUser", mock.Anything, mock.Anything).Return("user-1", nil).Once()
		analytics.On("CreateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("klaviyo down")).Once()

		token, _, err := svc.Register(context.Background(), req)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("Sup3rSecret!")
	assert.NoError(t, err)
	stored := &models.User{
		ID:           "user-1",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		PasswordHash: hash,
	}

	t.Run("success login", func(t *testing.T) {
		svc, users, _ := newAuthService(t)
		users.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(stored, nil).Once()

		token, expiresIn, err := svc.Login(context.Background(), "jane@example.com", "Sup3rSecret!")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, 3600, expiresIn)

		maker := jwt.NewJWTMaker("test-secret", time.Hour)
		claims, err := maker.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "Jane Doe", claims.FullName)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, users, _ := newAuthService(t)
		users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, repository.ErrNotFound).Once()

		_, _, err := svc.Login(context.Background(), "ghost@example.com", "Sup3rSecret!")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("incorrect password", func(t *testing.T) {
		svc, users, _ := newAuthService(t)
		users.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(stored, nil).Once()

		_, _, err := svc.Login(context.Background(), "jane@example.com", "WrongPass1!")

		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})
}
