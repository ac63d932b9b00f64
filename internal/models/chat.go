package models

import "time"

// Роли сообщений в переписке с ассистентом.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation группирует упорядоченные сообщения одного диалога.
// Диалог пополняется только добавлением сообщений, удаление возможно
// только целиком вместе с сообщениями.
type Conversation struct {
	ID        int       `json:"conversation_id"`
	UserID    string    `json:"-"`
	StartedAt time.Time `json:"started_at"`
	Messages  []Message `json:"messages"`
}

// Message одно сообщение диалога.
type Message struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversation_id"`
	UserID         string    `json:"-"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"timestamp"`
}

// DummyMessage используется для приёма сообщения из JSON-запроса.
type DummyMessage struct {
	ConversationID int    `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
	Role           string `json:"role" validate:"required,oneof=user assistant"`
}

// ChatTurn сообщение в формате, пригодном для передачи модели.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
