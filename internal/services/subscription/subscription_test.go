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

	"github.com/kittycareapp/kittycare-server/internal/models"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) UpdateSubscription(ctx context.Context, id, userID string, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	args := m.Called(ctx, id, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) DeleteSubscription(ctx context.Context, id, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishSubscriptionEvent(event models.SubscriptionEvent) error {
	return m.Called(event).Error(0)
}

type AnalyticsMock struct{ mock.Mock }

func (m *AnalyticsMock) CreateEvent(ctx context.Context, eventName, email string) error {
	return m.Called(ctx, eventName, email).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

type mocks struct {
	repo      *RepoMock
	users     *UsersMock
	cache     *CacheMock
	publisher *PublisherMock
	analytics *AnalyticsMock
}

func newService(t *testing.T) (*SubscriptionService, mocks) {
	t.Helper()
	m := mocks{
		repo:      new(RepoMock),
		users:     new(UsersMock),
		cache:     new(CacheMock),
		publisher: new(PublisherMock),
		analytics: new(AnalyticsMock),
	}
	svc := NewSubscriptionService(m.repo, m.users, m.cache, m.publisher, m.analytics, newNoopLogger())
	return svc, m
}

func testUser() *models.User {
	return &models.User{
		ID:        "user-1",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	}
}

func TestSubscriptionService_Create(t *testing.T) {
	futureEnd := time.Now().UTC().AddDate(1, 0, 0).Format(models.DateLayout)
	req := models.DummySubscription{
		Plan:          models.PlanPremium,
		StartDate:     "2026-01-01",
		EndDate:       futureEnd,
		Provider:      models.ProviderStripe,
		BillingPeriod: models.BillingYearly,
	}

	t.Run("success create", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
			return s.UserID == "user-1" && s.Plan == models.PlanPremium && s.ID != ""
		})).Return("sub-1", nil).Once()
		m.cache.On("Set", "subscription:user:user-1", mock.Anything, time.Hour).Return(nil).Once()
		m.users.On("GetUserByID", mock.Anything, "user-1").Return(testUser(), nil).Once()
		m.publisher.On("PublishSubscriptionEvent", mock.MatchedBy(func(e models.SubscriptionEvent) bool {
			return e.Type == models.EventSubscriptionConfirmed &&
				e.Email == "jane@example.com" && e.Name == "Jane Doe"
		})).Return(nil).Once()
		m.analytics.On("CreateEvent", mock.Anything, models.EventSubscriptionConfirmed, "jane@example.com").Return(nil).Once()

		sub, err := svc.Create(context.Background(), "user-1", req)

		assert.NoError(t, err)
		assert.NotNil(t, sub)
		assert.NotEmpty(t, sub.ID)
		m.repo.AssertExpectations(t)
		m.publisher.AssertExpectations(t)
	})

	t.Run("keeps provider subscription id", func(t *testing.T) {
		svc, m := newService(t)
		withID := req
		withID.ID = "sub_ext_42"
		m.repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
			return s.ID == "sub_ext_42"
		})).Return("sub_ext_42", nil).Once()
		m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		m.users.On("GetUserByID", mock.Anything, "user-1").Return(testUser(), nil).Once()
		m.publisher.On("PublishSubscriptionEvent", mock.Anything).Return(nil).Once()
		m.analytics.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		sub, err := svc.Create(context.Background(), "user-1", withID)

		assert.NoError(t, err)
		assert.Equal(t, "sub_ext_42", sub.ID)
	})

	t.Run("end date not in the future", func(t *testing.T) {
		svc, m := newService(t)
		past := req
		past.EndDate = "2020-01-01"

		_, err := svc.Create(context.Background(), "user-1", past)

		assert.ErrorIs(t, err, ErrEndDateNotFuture)
		m.repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})

	t.Run("duplicate subscription", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.On("CreateSubscription", mock.Anything, mock.Anything).
			Return("", repository.ErrSubscriptionExists).Once()

		_, err := svc.Create(context.Background(), "user-1", req)

		assert.ErrorIs(t, err, repository.ErrSubscriptionExists)
		m.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
		m.publisher.AssertNotCalled(t, "PublishSubscriptionEvent", mock.Anything)
	})

	t.Run("cache and queue failures do not fail create", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.On("CreateSubscription", mock.Anything, mock.Anything).Return("sub-1", nil).Once()
		m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
		m.users.On("GetUserByID", mock.Anything, "user-1").Return(testUser(), nil).Once()
		m.publisher.On("PublishSubscriptionEvent", mock.Anything).Return(errors.New("amqp down")).Once()
		m.analytics.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("klaviyo down")).Once()

		sub, err := svc.Create(context.Background(), "user-1", req)

		assert.NoError(t, err)
		assert.NotNil(t, sub)
	})
}

func TestSubscriptionService_Get(t *testing.T) {
	stored := &models.Subscription{
		ID:            "sub-1",
		UserID:        "user-1",
		Plan:          models.PlanBasic,
		Provider:      models.ProviderPayPal,
		BillingPeriod: models.BillingMonthly,
	}

	t.Run("cache hit", func(t *testing.T) {
		svc, m := newService(t)
		m.cache.On("Get", "subscription:user:user-1", mock.Anything).
			Run(func(args mock.Arguments) {
				ptr := args.Get(1).(**models.Subscription)
				*ptr = stored
			}).Return(true, nil).Once()

		sub, err := svc.Get(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, stored, sub)
		m.repo.AssertNotCalled(t, "GetSubscriptionByUserID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss falls back to repository", func(t *testing.T) {
		svc, m := newService(t)
		m.cache.On("Get", "subscription:user:user-1", mock.Anything).Return(false, nil).Once()
		m.repo.On("GetSubscriptionByUserID", mock.Anything, "user-1").Return(stored, nil).Once()
		m.cache.On("Set", "subscription:user:user-1", stored, time.Hour).Return(nil).Once()

		sub, err := svc.Get(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, stored, sub)
		m.repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newService(t)
		m.cache.On("Get", mock.Anything, mock.Anything).Return(false, nil).Once()
		m.repo.On("GetSubscriptionByUserID", mock.Anything, "user-1").
			Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Get(context.Background(), "user-1")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSubscriptionService_Update(t *testing.T) {
	t.Run("success update refreshes cache", func(t *testing.T) {
		svc, m := newService(t)
		plan := models.PlanPremium
		updated := &models.Subscription{ID: "sub-1", UserID: "user-1", Plan: plan}
		m.repo.On("UpdateSubscription", mock.Anything, "sub-1", "user-1",
			mock.MatchedBy(func(u models.SubscriptionUpdate) bool {
				return u.Plan != nil && *u.Plan == models.PlanPremium
			})).Return(updated, nil).Once()
		m.cache.On("Set", "subscription:user:user-1", updated, time.Hour).Return(nil).Once()

		sub, err := svc.Update(context.Background(), "sub-1", "user-1",
			models.DummySubscriptionUpdate{Plan: &plan})

		assert.NoError(t, err)
		assert.Equal(t, models.PlanPremium, sub.Plan)
	})

	t.Run("foreign subscription", func(t *testing.T) {
		svc, m := newService(t)
		plan := models.PlanBasic
		m.repo.On("UpdateSubscription", mock.Anything, "sub-1", "intruder", mock.Anything).
			Return(nil, repository.ErrNotOwned).Once()

		_, err := svc.Update(context.Background(), "sub-1", "intruder",
			models.DummySubscriptionUpdate{Plan: &plan})

		assert.ErrorIs(t, err, repository.ErrNotOwned)
		m.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc, m := newService(t)
		bad := "01-01-2026"

		_, err := svc.Update(context.Background(), "sub-1", "user-1",
			models.DummySubscriptionUpdate{EndDate: &bad})

		assert.Error(t, err)
		m.repo.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("end date not in the future", func(t *testing.T) {
		svc, m := newService(t)
		past := time.Now().UTC().AddDate(-1, 0, 0).Format(models.DateLayout)

		_, err := svc.Update(context.Background(), "sub-1", "user-1",
			models.DummySubscriptionUpdate{EndDate: &past})

		assert.ErrorIs(t, err, ErrEndDateNotFuture)
		m.repo.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	deleted := &models.Subscription{
		ID:            "sub-1",
		UserID:        "user-1",
		Plan:          models.PlanBasic,
		BillingPeriod: models.BillingMonthly,
	}

	t.Run("success cancel publishes event after delete", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.On("DeleteSubscription", mock.Anything, "sub-1", "user-1").Return(deleted, nil).Once()
		m.cache.On("Invalidate", "subscription:user:user-1").Return(nil).Once()
		m.users.On("GetUserByID", mock.Anything, "user-1").Return(testUser(), nil).Once()
		m.publisher.On("PublishSubscriptionEvent", mock.MatchedBy(func(e models.SubscriptionEvent) bool {
			return e.Type == models.EventSubscriptionCanceled
		})).Return(nil).Once()
		m.analytics.On("CreateEvent", mock.Anything, models.EventSubscriptionCanceled, "jane@example.com").Return(nil).Once()

		err := svc.Cancel(context.Background(), "sub-1", "user-1")

		assert.NoError(t, err)
		m.publisher.AssertExpectations(t)
	})

	t.Run("no event when delete fails", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.On("DeleteSubscription", mock.Anything, "sub-1", "user-1").
			Return(nil, repository.ErrNotFound).Once()

		err := svc.Cancel(context.Background(), "sub-1", "user-1")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		m.cache.AssertNotCalled(t, "Invalidate", mock.Anything)
		m.publisher.AssertNotCalled(t, "PublishSubscriptionEvent", mock.Anything)
	})
}
