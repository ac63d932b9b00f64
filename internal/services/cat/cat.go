// Package services содержит бизнес-логику управления профилями котов
// и пересчёта рекомендаций по уходу.
package services

import (
	"context"
	"log/slog"

	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/models"
)

// CatRepository описывает контракт хранилища профилей котов.
type CatRepository interface {
	ListCats(ctx context.Context, userID string) ([]*models.Cat, error)
	CreateCat(ctx context.Context, cat models.Cat) (*models.Cat, error)
	UpdateCat(ctx context.Context, id int, userID string, upd models.DummyCatUpdate) (*models.Cat, error)
	UpdateCatRecommendations(ctx context.Context, id int, rec models.Recommendations) error
	DeleteCat(ctx context.Context, id int, userID string) error
}

// Recommender рассчитывает KPI по уходу на основе профиля кота.
type Recommender interface {
	GetRecommendations(ctx context.Context, cat *models.Cat) (*models.Recommendations, error)
}

// CatService оркестрирует CRUD профилей котов. При создании и при
// изменении веса, целевого веса или уровня активности рекомендации
// пересчитываются; сбой пересчёта не отменяет основную операцию.
type CatService struct {
	repo        CatRepository
	recommender Recommender
	log         *slog.Logger
}

// NewCatService создает новый экземпляр CatService.
func NewCatService(repo CatRepository, recommender Recommender, log *slog.Logger) *CatService {
	return &CatService{
		repo:        repo,
		recommender: recommender,
		log:         log,
	}
}

// List возвращает всех котов пользователя.
func (s *CatService) List(ctx context.Context, userID string) ([]*models.Cat, error) {
	return s.repo.ListCats(ctx, userID)
}

// Create сохраняет профиль кота и заполняет рекомендации по уходу.
func (s *CatService) Create(ctx context.Context, userID string, req models.DummyCat) (*models.Cat, error) {
	cat := models.Cat{
		UserID:           userID,
		Name:             req.Name,
		Breed:            req.Breed,
		Age:              req.Age,
		Gender:           req.Gender,
		Weight:           req.Weight,
		TargetWeight:     req.TargetWeight,
		ActivityLevel:    req.ActivityLevel,
		Photo:            req.Photo,
		Goals:            req.Goals,
		IssuesFaced:      req.IssuesFaced,
		RequiredProgress: req.RequiredProgress,
	}

	created, err := s.repo.CreateCat(ctx, cat)
	if err != nil {
		return nil, err
	}
	s.log.Info("created cat profile", slog.Int("id", created.ID))

	s.refreshRecommendations(ctx, created)
	return created, nil
}

// Update частично обновляет профиль кота. Если изменение затрагивает
// вес, целевой вес или уровень активности, рекомендации пересчитываются.
func (s *CatService) Update(ctx context.Context, id int, userID string, req models.DummyCatUpdate) (*models.Cat, error) {
	updated, err := s.repo.UpdateCat(ctx, id, userID, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated cat profile", slog.Int("id", id))

	if req.NeedsRecommendations() {
		s.refreshRecommendations(ctx, updated)
	}
	return updated, nil
}

// Delete удаляет профиль кота.
func (s *CatService) Delete(ctx context.Context, id int, userID string) error {
	if err := s.repo.DeleteCat(ctx, id, userID); err != nil {
		return err
	}
	s.log.Info("deleted cat profile", slog.Int("id", id))
	return nil
}

func (s *CatService) refreshRecommendations(ctx context.Context, cat *models.Cat) {
	rec, err := s.recommender.GetRecommendations(ctx, cat)
	if err != nil {
		s.log.Warn("failed to get care recommendations", slog.Int("cat_id", cat.ID), sl.Err(err))
		return
	}
	if err := s.repo.UpdateCatRecommendations(ctx, cat.ID, *rec); err != nil {
		s.log.Warn("failed to store care recommendations", slog.Int("cat_id", cat.ID), sl.Err(err))
		return
	}
	cat.FoodBowls = rec.FoodBowls
	cat.Treats = rec.Treats
	cat.Playtime = rec.Playtime
}
