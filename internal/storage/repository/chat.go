package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kittycareapp/kittycare-server/internal/models"
)

// ListConversations возвращает диалоги пользователя вместе с сообщениями
// в хронологическом порядке.
func (s *Storage) ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	const op = "repository.ListConversations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, started_at
			  FROM conversations
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Conversation
	byID := make(map[int]*models.Conversation)
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.StartedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.Messages = []models.Message{}
		result = append(result, &c)
		byID[c.ID] = result[len(result)-1]
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	msgQuery := `SELECT m.id, m.conversation_id, m.user_id, m.role, m.content, m.created_at
			  FROM messages m
			  JOIN conversations c ON m.conversation_id = c.id
			  WHERE c.user_id = $1
			  ORDER BY m.conversation_id, m.id`
	msgRows, err := s.DB.QueryContext(ctx, msgQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = msgRows.Close()
	}()

	for msgRows.Next() {
		var m models.Message
		if err := msgRows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role,
			&m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if c, ok := byID[m.ConversationID]; ok {
			c.Messages = append(c.Messages, m)
		}
	}
	if err = msgRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetConversationByID возвращает диалог без сообщений.
func (s *Storage) GetConversationByID(ctx context.Context, id int) (*models.Conversation, error) {
	const op = "repository.GetConversationByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, started_at FROM conversations WHERE id = $1`
	var c models.Conversation
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.UserID, &c.StartedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// CreateConversation создает пустой диалог и возвращает его.
func (s *Storage) CreateConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	const op = "repository.CreateConversation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO conversations (user_id)
			  VALUES ($1)
			  RETURNING id, user_id, started_at`
	var c models.Conversation
	row := s.DB.QueryRowContext(ctx, query, userID)
	if err := row.Scan(&c.ID, &c.UserID, &c.StartedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Messages = []models.Message{}
	return &c, nil
}

// DeleteConversation удаляет диалог вместе с сообщениями (каскадно).
// Возвращает ErrNotFound, если диалога нет, и ErrNotOwned, если он
// принадлежит другому пользователю.
func (s *Storage) DeleteConversation(ctx context.Context, id int, userID string) error {
	const op = "repository.DeleteConversation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	current, err := s.GetConversationByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current.UserID != userID {
		return fmt.Errorf("%s: %w", op, ErrNotOwned)
	}

	query := `DELETE FROM conversations WHERE id = $1 AND user_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// CreateMessage добавляет сообщение в диалог и возвращает запись.
func (s *Storage) CreateMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	const op = "repository.CreateMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO messages (conversation_id, user_id, role, content)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, conversation_id, user_id, role, content, created_at`
	var m models.Message
	row := s.DB.QueryRowContext(ctx, query, msg.ConversationID, msg.UserID, msg.Role, msg.Content)
	if err := row.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// ListMessages возвращает сообщения диалога в порядке добавления.
func (s *Storage) ListMessages(ctx context.Context, conversationID int) ([]models.Message, error) {
	const op = "repository.ListMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, conversation_id, user_id, role, content, created_at
			  FROM messages
			  WHERE conversation_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role,
			&m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
