package repository

import "errors"

// Типизированные ошибки хранилища. Сервисный слой сопоставляет их
// с HTTP статусами, не разбирая текст ошибок базы данных.
var (
	// ErrNotFound запись не существует.
	ErrNotFound = errors.New("not found")
	// ErrNotOwned запись существует, но принадлежит другому пользователю.
	ErrNotOwned = errors.New("not owned by user")
	// ErrSubscriptionExists у пользователя уже есть подписка.
	ErrSubscriptionExists = errors.New("subscription already exists")
	// ErrEmailTaken email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already taken")
)
