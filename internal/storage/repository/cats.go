package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kittycareapp/kittycare-server/internal/models"
)

// ListCats возвращает всех котов пользователя в порядке создания.
func (s *Storage) ListCats(ctx context.Context, userID string) ([]*models.Cat, error) {
	const op = "repository.ListCats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, name, breed, age, gender, weight, target_weight,
			      activity_level, photo, goals, issues_faced, required_progress,
			      food_bowls, treats, playtime
			  FROM cats
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Cat
	for rows.Next() {
		item, err := scanCat(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCatByID возвращает кота по его ID.
func (s *Storage) GetCatByID(ctx context.Context, id int) (*models.Cat, error) {
	const op = "repository.GetCatByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, name, breed, age, gender, weight, target_weight,
			      activity_level, photo, goals, issues_faced, required_progress,
			      food_bowls, treats, playtime
			  FROM cats
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	item, err := scanCat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// CreateCat вставляет профиль кота и возвращает запись целиком.
func (s *Storage) CreateCat(ctx context.Context, cat models.Cat) (*models.Cat, error) {
	const op = "repository.CreateCat"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cats (user_id, name, breed, age, gender, weight, target_weight,
			      activity_level, photo, goals, issues_faced, required_progress,
			      food_bowls, treats, playtime)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			  RETURNING id, user_id, name, breed, age, gender, weight, target_weight,
			      activity_level, photo, goals, issues_faced, required_progress,
			      food_bowls, treats, playtime`
	row := s.DB.QueryRowContext(ctx, query,
		cat.UserID, cat.Name, cat.Breed, cat.Age, cat.Gender, cat.Weight, cat.TargetWeight,
		cat.ActivityLevel, cat.Photo, cat.Goals, cat.IssuesFaced, cat.RequiredProgress,
		cat.FoodBowls, cat.Treats, cat.Playtime)
	item, err := scanCat(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// UpdateCat частично обновляет профиль кота и возвращает итоговую запись.
// Возвращает ErrNotFound, если кота нет, и ErrNotOwned, если он
// принадлежит другому пользователю.
func (s *Storage) UpdateCat(ctx context.Context, id int, userID string, upd models.DummyCatUpdate) (*models.Cat, error) {
	const op = "repository.UpdateCat"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	current, err := s.GetCatByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwned)
	}

	query := `UPDATE cats
			  SET name = COALESCE($1, name),
			      breed = COALESCE($2, breed),
			      age = COALESCE($3, age),
			      gender = COALESCE($4, gender),
			      weight = COALESCE($5, weight),
			      target_weight = COALESCE($6, target_weight),
			      activity_level = COALESCE($7, activity_level),
			      photo = COALESCE($8, photo),
			      goals = COALESCE($9, goals),
			      issues_faced = COALESCE($10, issues_faced),
			      required_progress = COALESCE($11, required_progress)
			  WHERE id = $12 AND user_id = $13
			  RETURNING id, user_id, name, breed, age, gender, weight, target_weight,
			      activity_level, photo, goals, issues_faced, required_progress,
			      food_bowls, treats, playtime`
	row := s.DB.QueryRowContext(ctx, query,
		upd.Name, upd.Breed, upd.Age, upd.Gender, upd.Weight, upd.TargetWeight,
		upd.ActivityLevel, upd.Photo, upd.Goals, upd.IssuesFaced, upd.RequiredProgress,
		id, userID)
	item, err := scanCat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// UpdateCatRecommendations сохраняет пересчитанные рекомендации по уходу.
func (s *Storage) UpdateCatRecommendations(ctx context.Context, id int, rec models.Recommendations) error {
	const op = "repository.UpdateCatRecommendations"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cats
			  SET food_bowls = $1, treats = $2, playtime = $3
			  WHERE id = $4`
	_, err := s.DB.ExecContext(ctx, query, rec.FoodBowls, rec.Treats, rec.Playtime, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteCat удаляет профиль кота. Различает отсутствие записи и чужую
// запись так же, как UpdateCat.
func (s *Storage) DeleteCat(ctx context.Context, id int, userID string) error {
	const op = "repository.DeleteCat"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	current, err := s.GetCatByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current.UserID != userID {
		return fmt.Errorf("%s: %w", op, ErrNotOwned)
	}

	query := `DELETE FROM cats WHERE id = $1 AND user_id = $2`
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCat(row rowScanner) (*models.Cat, error) {
	var item models.Cat
	if err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.Breed, &item.Age,
		&item.Gender, &item.Weight, &item.TargetWeight, &item.ActivityLevel,
		&item.Photo, &item.Goals, &item.IssuesFaced, &item.RequiredProgress,
		&item.FoodBowls, &item.Treats, &item.Playtime); err != nil {
		return nil, err
	}
	return &item, nil
}
