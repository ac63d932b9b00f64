package update

import (
	"context"
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
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id int, userID string, req models.DummyCatUpdate) (*models.Cat, error) {
	args := m.Called(ctx, id, userID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Cat), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		body           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное обновление",
			id:     "7",
			body:   `{"weight":5.2}`,
			userID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, 7, "user-1", mock.MatchedBy(func(u models.DummyCatUpdate) bool {
					return u.Weight != nil && *u.Weight == 5.2
				})).Return(&models.Cat{ID: 7, UserID: "user-1", Name: "Murka", Weight: 5.2}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Murka"`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			body:           `{"weight":5.2}`,
			userID:         "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid id"`,
		},
		{
			name:           "пустое обновление",
			id:             "7",
			body:           `{}`,
			userID:         "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"at least one field must be provided"`,
		},
		{
			name:   "кот не найден",
			id:     "99",
			body:   `{"weight":5.2}`,
			userID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, 99, "user-1", mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"cat not found"`,
		},
		{
			name:   "чужой кот",
			id:     "7",
			body:   `{"weight":5.2}`,
			userID: "intruder",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, 7, "intruder", mock.Anything).
					Return(nil, repository.ErrNotOwned)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"cat belongs to another user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/cats/"+tt.id, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserID, tt.userID)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
