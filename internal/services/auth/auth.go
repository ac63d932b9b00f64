// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kittycareapp/kittycare-server/internal/lib/jwt"
	"github.com/kittycareapp/kittycare-server/internal/lib/password"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/models"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

// Ошибки аутентификации, транслируемые обработчиками в HTTP статусы.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailTaken        = errors.New("email already taken")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Analytics описывает контракт клиента аналитики. Создание профиля
// выполняется best-effort и не влияет на результат регистрации.
type Analytics interface {
	CreateProfile(ctx context.Context, email, firstName, lastName string, phoneNumber *string) error
}

// AuthService отвечает за регистрацию и авторизацию пользователей.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	analytics Analytics
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, analytics Analytics, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		analytics: analytics,
		log:       log,
	}
}

// Register создает нового пользователя с хэшированием пароля и выдает JWT.
// Возвращает токен, время его жизни в секундах и ошибку.
func (s *AuthService) Register(ctx context.Context, req models.DummyUser) (string, int, error) {
	if err := password.ValidatePolicy(req.Password); err != nil {
		return "", 0, err
	}
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", 0, err
	}
	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashed,
		PhoneNumber:  req.PhoneNumber,
	}
	userID, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return "", 0, ErrEmailTaken
		}
		return "", 0, err
	}

	if err := s.analytics.CreateProfile(ctx, user.Email, user.FirstName, user.LastName, user.PhoneNumber); err != nil {
		s.log.Warn("failed to create analytics profile", slog.String("email", user.Email), sl.Err(err))
	}

	token, err := s.jwtMaker.GenerateToken(userID, user.Email, user.FullName())
	if err != nil {
		return "", 0, err
	}
	return token, int(s.jwtMaker.TokenTTL() / time.Second), nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Возвращает токен, время его жизни в секундах и ошибку.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, int, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", 0, ErrUserNotFound
		}
		return "", 0, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", 0, ErrIncorrectPassword
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.FullName())
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, int(s.jwtMaker.TokenTTL() / time.Second), nil
}
