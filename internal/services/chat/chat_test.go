package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kittycareapp/kittycare-server/internal/models"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

type ChatRepoMock struct{ mock.Mock }

func (m *ChatRepoMock) ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Conversation), args.Error(1)
}
func (m *ChatRepoMock) GetConversationByID(ctx context.Context, id int) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}
func (m *ChatRepoMock) CreateConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}
func (m *ChatRepoMock) DeleteConversation(ctx context.Context, id int, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}
func (m *ChatRepoMock) CreateMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

type CatRepoMock struct{ mock.Mock }

func (m *CatRepoMock) GetCatByID(ctx context.Context, id int) (*models.Cat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cat), args.Error(1)
}

type AssistantMock struct{ mock.Mock }

func (m *AssistantMock) SendMessages(ctx context.Context, cat *models.Cat, turns []models.ChatTurn, language string) (string, error) {
	args := m.Called(ctx, cat, turns, language)
	return args.String(0), args.Error(1)
}
func (m *AssistantMock) GetRecommendations(ctx context.Context, cat *models.Cat) (*models.Recommendations, error) {
	args := m.Called(ctx, cat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendations), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newChatService(t *testing.T) (*ChatService, *ChatRepoMock, *CatRepoMock, *AssistantMock) {
	t.Helper()
	repo := new(ChatRepoMock)
	cats := new(CatRepoMock)
	assistant := new(AssistantMock)
	return NewChatService(repo, cats, assistant, newNoopLogger()), repo, cats, assistant
}

func TestChatService_AddMessage(t *testing.T) {
	req := models.DummyMessage{
		ConversationID: 5,
		Role:           models.RoleUser,
		Content:        "My cat sneezes a lot",
	}

	t.Run("success add message", func(t *testing.T) {
		svc, repo, _, _ := newChatService(t)
		repo.On("GetConversationByID", mock.Anything, 5).
			Return(&models.Conversation{ID: 5, UserID: "user-1"}, nil).Once()
		repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
			return m.ConversationID == 5 && m.UserID == "user-1" && m.Role == models.RoleUser
		})).Return(&models.Message{ID: 1, ConversationID: 5, Content: req.Content}, nil).Once()

		msg, err := svc.AddMessage(context.Background(), "user-1", req)

		assert.NoError(t, err)
		assert.Equal(t, 1, msg.ID)
		repo.AssertExpectations(t)
	})

	t.Run("foreign conversation", func(t *testing.T) {
		svc, repo, _, _ := newChatService(t)
		repo.On("GetConversationByID", mock.Anything, 5).
			Return(&models.Conversation{ID: 5, UserID: "someone-else"}, nil).Once()

		_, err := svc.AddMessage(context.Background(), "user-1", req)

		assert.ErrorIs(t, err, repository.ErrNotOwned)
		repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	})

	t.Run("missing conversation", func(t *testing.T) {
		svc, repo, _, _ := newChatService(t)
		repo.On("GetConversationByID", mock.Anything, 5).
			Return(nil, repository.ErrNotFound).Once()

		_, err := svc.AddMessage(context.Background(), "user-1", req)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestChatService_Chat(t *testing.T) {
	turns := []models.ChatTurn{{Role: models.RoleUser, Content: "Is my cat overweight?"}}

	t.Run("success chat", func(t *testing.T) {
		svc, _, cats, assistant := newChatService(t)
		cat := &models.Cat{ID: 7, UserID: "user-1", Name: "Murka"}
		cats.On("GetCatByID", mock.Anything, 7).Return(cat, nil).Once()
		assistant.On("SendMessages", mock.Anything, cat, turns, "English").
			Return("Murka looks fine", nil).Once()

		answer, err := svc.Chat(context.Background(), "user-1", 7, turns, "English")

		assert.NoError(t, err)
		assert.Equal(t, "Murka looks fine", answer)
	})

	t.Run("foreign cat reported as missing", func(t *testing.T) {
		svc, _, cats, assistant := newChatService(t)
		cats.On("GetCatByID", mock.Anything, 7).
			Return(&models.Cat{ID: 7, UserID: "someone-else"}, nil).Once()

		_, err := svc.Chat(context.Background(), "user-1", 7, turns, "English")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assistant.AssertNotCalled(t, "SendMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChatService_Recommendations(t *testing.T) {
	svc, _, _, assistant := newChatService(t)
	cat := &models.Cat{Name: "Murka", Weight: 6.1, TargetWeight: 5.0}
	rec := &models.Recommendations{FoodBowls: 1.5, Treats: 1, Playtime: 45}
	assistant.On("GetRecommendations", mock.Anything, cat).Return(rec, nil).Once()

	got, err := svc.Recommendations(context.Background(), cat)

	assert.NoError(t, err)
	assert.Equal(t, rec, got)
}
