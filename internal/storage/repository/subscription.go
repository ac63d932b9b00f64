package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kittycareapp/kittycare-server/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает её ID.
// Уникальный индекс на user_id гарантирует не более одной подписки
// на пользователя; нарушение транслируется в ErrSubscriptionExists.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "repository.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_id, plan, start_date, end_date, provider, billing_period)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.Plan, sub.StartDate, sub.EndDate,
		sub.Provider, sub.BillingPeriod).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrSubscriptionExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubscriptionByUserID возвращает подписку пользователя.
func (s *Storage) GetSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "repository.GetSubscriptionByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan, start_date, end_date, provider, billing_period
			  FROM subscriptions
			  WHERE user_id = $1`
	row := s.DB.QueryRowContext(ctx, query, userID)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserID, &result.Plan, &result.StartDate,
		&result.EndDate, &result.Provider, &result.BillingPeriod); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// GetSubscriptionByID возвращает подписку по её ID.
func (s *Storage) GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "repository.GetSubscriptionByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan, start_date, end_date, provider, billing_period
			  FROM subscriptions
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserID, &result.Plan, &result.StartDate,
		&result.EndDate, &result.Provider, &result.BillingPeriod); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateSubscription частично обновляет подписку и возвращает итоговую
// запись. Возвращает ErrNotFound, если подписки нет, и ErrNotOwned,
// если она принадлежит другому пользователю.
func (s *Storage) UpdateSubscription(ctx context.Context, id, userID string, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	const op = "repository.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	current, err := s.GetSubscriptionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwned)
	}

	query := `UPDATE subscriptions
			  SET plan = COALESCE($1, plan),
			      start_date = COALESCE($2, start_date),
			      end_date = COALESCE($3, end_date),
			      provider = COALESCE($4, provider),
			      billing_period = COALESCE($5, billing_period)
			  WHERE id = $6 AND user_id = $7
			  RETURNING id, user_id, plan, start_date, end_date, provider, billing_period`
	row := s.DB.QueryRowContext(ctx, query,
		upd.Plan, upd.StartDate, upd.EndDate, upd.Provider, upd.BillingPeriod, id, userID)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserID, &result.Plan, &result.StartDate,
		&result.EndDate, &result.Provider, &result.BillingPeriod); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// DeleteSubscription удаляет подписку пользователя и возвращает удалённую
// запись. Различает отсутствие записи и чужую запись так же, как
// UpdateSubscription.
func (s *Storage) DeleteSubscription(ctx context.Context, id, userID string) (*models.Subscription, error) {
	const op = "repository.DeleteSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	current, err := s.GetSubscriptionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwned)
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return current, nil
}
