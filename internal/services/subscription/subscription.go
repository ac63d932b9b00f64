// Package services содержит бизнес-логику управления подпиской
// пользователя: создание, чтение, обновление и отмена с кешированием
// и публикацией событий для почтовых уведомлений.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kittycareapp/kittycare-server/internal/cache"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/models"
)

// ErrEndDateNotFuture дата окончания подписки не в будущем.
var ErrEndDateNotFuture = errors.New("end date must be in the future")

// SubscriptionRepository описывает контракт хранилища подписок.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	GetSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id, userID string, upd models.SubscriptionUpdate) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id, userID string) (*models.Subscription, error)
}

// UserRepository используется для получения адресата уведомлений.
type UserRepository interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Cache описывает контракт кеша подписок.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Publisher публикует события подписки в очередь уведомлений.
type Publisher interface {
	PublishSubscriptionEvent(event models.SubscriptionEvent) error
}

// Analytics отправляет события жизненного цикла подписки в аналитику.
type Analytics interface {
	CreateEvent(ctx context.Context, eventName, email string) error
}

// SubscriptionService оркестрирует операции с подпиской. Побочные
// эффекты (кеш, очередь, аналитика) выполняются best-effort после
// подтверждённого изменения состояния в базе данных.
type SubscriptionService struct {
	repo      SubscriptionRepository
	users     UserRepository
	cache     Cache
	publisher Publisher
	analytics Analytics
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, users UserRepository, cache Cache,
	publisher Publisher, analytics Analytics, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		users:     users,
		cache:     cache,
		publisher: publisher,
		analytics: analytics,
		log:       log,
	}
}

// Create создает подписку пользователя. Инвариант "не более одной
// подписки" обеспечивает уникальный индекс в базе, поэтому гонка двух
// конкурентных запросов невозможна.
func (s *SubscriptionService) Create(ctx context.Context, userID string, req models.DummySubscription) (*models.Subscription, error) {
	startDate, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	if !endDate.After(time.Now().UTC()) {
		return nil, ErrEndDateNotFuture
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	sub := models.Subscription{
		ID:            id,
		UserID:        userID,
		Plan:          req.Plan,
		StartDate:     startDate,
		EndDate:       endDate,
		Provider:      req.Provider,
		BillingPeriod: req.BillingPeriod,
	}

	if _, err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.String("id", sub.ID))

	cacheKey := cache.SubscriptionKey(userID)
	if err := s.cache.Set(cacheKey, sub, cache.SubscriptionTTL); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}

	s.notify(ctx, &sub, models.EventSubscriptionConfirmed)
	return &sub, nil
}

// Get возвращает подписку пользователя, сначала заглядывая в кеш.
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := cache.SubscriptionKey(userID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, cache.SubscriptionTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Update частично обновляет подписку и возвращает итоговую запись.
func (s *SubscriptionService) Update(ctx context.Context, id, userID string, req models.DummySubscriptionUpdate) (*models.Subscription, error) {
	upd := models.SubscriptionUpdate{
		Plan:          req.Plan,
		Provider:      req.Provider,
		BillingPeriod: req.BillingPeriod,
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(models.DateLayout, *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		upd.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(models.DateLayout, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		if !endDate.After(time.Now().UTC()) {
			return nil, ErrEndDateNotFuture
		}
		upd.EndDate = &endDate
	}

	result, err := s.repo.UpdateSubscription(ctx, id, userID, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated subscription", slog.String("id", id))

	cacheKey := cache.SubscriptionKey(userID)
	if err := s.cache.Set(cacheKey, result, cache.SubscriptionTTL); err != nil {
		s.log.Warn("failed to refresh cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Cancel удаляет подписку пользователя. Событие отмены публикуется
// только после успешного удаления записи.
func (s *SubscriptionService) Cancel(ctx context.Context, id, userID string) error {
	deleted, err := s.repo.DeleteSubscription(ctx, id, userID)
	if err != nil {
		return err
	}
	s.log.Info("canceled subscription", slog.String("id", id))

	cacheKey := cache.SubscriptionKey(userID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.notify(ctx, deleted, models.EventSubscriptionCanceled)
	return nil
}

func (s *SubscriptionService) notify(ctx context.Context, sub *models.Subscription, eventType string) {
	user, err := s.users.GetUserByID(ctx, sub.UserID)
	if err != nil {
		s.log.Warn("failed to resolve notification recipient", slog.String("user_id", sub.UserID), sl.Err(err))
		return
	}

	event := models.SubscriptionEvent{
		Type:          eventType,
		Email:         user.Email,
		Name:          user.FullName(),
		Plan:          sub.Plan,
		BillingPeriod: sub.BillingPeriod,
		StartDate:     sub.StartDate.Format(models.DateLayout),
		EndDate:       sub.EndDate.Format(models.DateLayout),
	}
	if err := s.publisher.PublishSubscriptionEvent(event); err != nil {
		s.log.Warn("failed to publish subscription event", slog.String("type", eventType), sl.Err(err))
	}
	if err := s.analytics.CreateEvent(ctx, eventType, user.Email); err != nil {
		s.log.Warn("failed to send analytics event", slog.String("type", eventType), sl.Err(err))
	}
}
