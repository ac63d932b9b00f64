// Package services содержит бизнес-логику переписки с ветеринарным
// ассистентом: диалоги, сообщения и обращения к языковой модели.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kittycareapp/kittycare-server/internal/models"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

// ChatRepository описывает контракт хранилища диалогов и сообщений.
type ChatRepository interface {
	ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error)
	GetConversationByID(ctx context.Context, id int) (*models.Conversation, error)
	CreateConversation(ctx context.Context, userID string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id int, userID string) error
	CreateMessage(ctx context.Context, msg models.Message) (*models.Message, error)
}

// CatRepository используется для получения профиля кота, передаваемого
// модели как контекст диалога.
type CatRepository interface {
	GetCatByID(ctx context.Context, id int) (*models.Cat, error)
}

// Assistant описывает контракт языковой модели.
type Assistant interface {
	SendMessages(ctx context.Context, cat *models.Cat, turns []models.ChatTurn, language string) (string, error)
	GetRecommendations(ctx context.Context, cat *models.Cat) (*models.Recommendations, error)
}

// ChatService оркестрирует переписку с ассистентом.
type ChatService struct {
	repo      ChatRepository
	cats      CatRepository
	assistant Assistant
	log       *slog.Logger
}

// NewChatService создает новый экземпляр ChatService.
func NewChatService(repo ChatRepository, cats CatRepository, assistant Assistant, log *slog.Logger) *ChatService {
	return &ChatService{
		repo:      repo,
		cats:      cats,
		assistant: assistant,
		log:       log,
	}
}

// ListConversations возвращает диалоги пользователя с сообщениями.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// CreateConversation создает пустой диалог.
func (s *ChatService) CreateConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	conv, err := s.repo.CreateConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("created conversation", slog.Int("id", conv.ID))
	return conv, nil
}

// DeleteConversation удаляет диалог вместе с сообщениями.
func (s *ChatService) DeleteConversation(ctx context.Context, id int, userID string) error {
	if err := s.repo.DeleteConversation(ctx, id, userID); err != nil {
		return err
	}
	s.log.Info("deleted conversation", slog.Int("id", id))
	return nil
}

// AddMessage добавляет сообщение в диалог пользователя. Диалог должен
// существовать и принадлежать пользователю.
func (s *ChatService) AddMessage(ctx context.Context, userID string, req models.DummyMessage) (*models.Message, error) {
	conv, err := s.repo.GetConversationByID(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, fmt.Errorf("conversation %d: %w", req.ConversationID, repository.ErrNotOwned)
	}

	return s.repo.CreateMessage(ctx, models.Message{
		ConversationID: req.ConversationID,
		UserID:         userID,
		Role:           req.Role,
		Content:        req.Content,
	})
}

// Chat отправляет историю переписки модели вместе с профилем кота
// и возвращает ответ ассистента. История не сохраняется, клиент
// фиксирует сообщения отдельными запросами.
func (s *ChatService) Chat(ctx context.Context, userID string, catID int, turns []models.ChatTurn, language string) (string, error) {
	cat, err := s.cats.GetCatByID(ctx, catID)
	if err != nil {
		return "", err
	}
	if cat.UserID != userID {
		return "", fmt.Errorf("cat %d: %w", catID, repository.ErrNotFound)
	}

	return s.assistant.SendMessages(ctx, cat, turns, language)
}

// Recommendations рассчитывает KPI по уходу для переданного профиля
// кота, не обращаясь к хранилищу.
func (s *ChatService) Recommendations(ctx context.Context, cat *models.Cat) (*models.Recommendations, error) {
	return s.assistant.GetRecommendations(ctx, cat)
}
