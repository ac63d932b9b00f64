package middlewarectx

import "context"

// UserIDFromContext извлекает идентификатор пользователя, добавленный
// JWTMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserID).(string)
	return userID, ok && userID != ""
}

// EmailFromContext извлекает email пользователя из контекста.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(Email).(string)
	return email, ok && email != ""
}

// FullNameFromContext извлекает отображаемое имя пользователя из контекста.
func FullNameFromContext(ctx context.Context) (string, bool) {
	fullName, ok := ctx.Value(FullName).(string)
	return fullName, ok && fullName != ""
}
