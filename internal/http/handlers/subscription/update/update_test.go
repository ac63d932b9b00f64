package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kittycareapp/kittycare-server/internal/http/middlewarectx"
	"github.com/kittycareapp/kittycare-server/internal/models"
	services "github.com/kittycareapp/kittycare-server/internal/services/subscription"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id, userID string, req models.DummySubscriptionUpdate) (*models.Subscription, error) {
	args := m.Called(ctx, id, userID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		subscriptionID string
		body           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешное обновление плана",
			subscriptionID: "sub-1",
			body:           `{"plan":"Premium"}`,
			userID:         "user-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "sub-1", "user-1", mock.MatchedBy(func(r models.DummySubscriptionUpdate) bool {
					return r.Plan != nil && *r.Plan == models.PlanPremium
				})).Return(&models.Subscription{ID: "sub-1", UserID: "user-1", Plan: models.PlanPremium}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"plan":"Premium"`,
		},
		{
			name:           "некорректный JSON",
			subscriptionID: "sub-1",
			body:           `{broken`,
			userID:         "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "пустое обновление",
			subscriptionID: "sub-1",
			body:           `{}`,
			userID:         "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"at least one field must be provided"`,
		},
		{
			name:           "недопустимый план",
			subscriptionID: "sub-1",
			body:           `{"plan":"Gold"}`,
			userID:         "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Plan must be one of: Basic Premium`,
		},
		{
			name:           "нет пользователя в контексте",
			subscriptionID: "sub-1",
			body:           `{"plan":"Premium"}`,
			userID:         "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "подписка не найдена",
			subscriptionID: "missing",
			body:           `{"plan":"Premium"}`,
			userID:         "user-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "missing", "user-1", mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"subscription not found"`,
		},
		{
			name:           "чужая подписка",
			subscriptionID: "sub-1",
			body:           `{"plan":"Premium"}`,
			userID:         "intruder",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "sub-1", "intruder", mock.Anything).
					Return(nil, repository.ErrNotOwned)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"subscription belongs to another user"`,
		},
		{
			name:           "дата окончания в прошлом",
			subscriptionID: "sub-1",
			body:           `{"end_date":"2020-01-01"}`,
			userID:         "user-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "sub-1", "user-1", mock.Anything).
					Return(nil, services.ErrEndDateNotFuture)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"end date must be in the future"`,
		},
		{
			name:           "ошибка сервиса",
			subscriptionID: "sub-1",
			body:           `{"plan":"Premium"}`,
			userID:         "user-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "sub-1", "user-1", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+tt.subscriptionID, strings.NewReader(tt.body))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.subscriptionID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

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
