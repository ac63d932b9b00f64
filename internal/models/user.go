// Package models содержит доменные структуры сервиса KittyCare:
// пользователи, подписки, профили котов и переписка с ассистентом,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    // Уникальный идентификатор пользователя (uuid)
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	PhoneNumber  *string   // Телефон (опционально)
	CreatedAt    time.Time // Дата регистрации
}

// FullName возвращает отображаемое имя пользователя.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// DummyUser используется для приёма данных из JSON-запроса на регистрацию.
// Политика сложности пароля проверяется в бизнес-логике.
type DummyUser struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// DummyLogin используется для приёма данных из JSON-запроса на вход.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
