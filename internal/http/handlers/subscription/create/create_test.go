package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kittycareapp/kittycare-server/internal/http/middlewarectx"
	"github.com/kittycareapp/kittycare-server/internal/models"
	services "github.com/kittycareapp/kittycare-server/internal/services/subscription"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userID string, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, userID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"plan":"Premium","start_date":"2026-01-01","end_date":"2027-01-01","provider":"Stripe","billing_period":"Yearly"}`

	tests := []struct {
		name           string
		body           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное создание подписки",
			body:   validBody,
			userID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(r models.DummySubscription) bool {
					return r.Plan == models.PlanPremium && r.Provider == models.ProviderStripe
				})).Return(&models.Subscription{ID: "sub-1", UserID: "user-1", Plan: models.PlanPremium}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"sub-1"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{broken`,
			userID:         "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "недопустимый план",
			body:           `{"plan":"Gold","start_date":"2026-01-01","end_date":"2027-01-01","provider":"Stripe","billing_period":"Yearly"}`,
			userID:         "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Plan must be one of: Basic Premium`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           validBody,
			userID:         "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:   "подписка уже существует",
			body:   validBody,
			userID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).
					Return(nil, repository.ErrSubscriptionExists)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"User already has a subscription"`,
		},
		{
			name:   "дата окончания в прошлом",
			body:   validBody,
			userID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).
					Return(nil, services.ErrEndDateNotFuture)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"end date must be in the future"`,
		},
		{
			name:   "ошибка сервиса",
			body:   validBody,
			userID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(tt.body))
			if tt.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, tt.userID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
