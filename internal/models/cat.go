package models

// Cat представляет профиль кота пользователя вместе с последними
// рекомендациями по уходу, рассчитанными ассистентом.
type Cat struct {
	ID               int     `json:"id"`
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	Breed            string  `json:"breed,omitempty"`
	Age              int     `json:"age,omitempty"`
	Gender           string  `json:"gender,omitempty"`
	Weight           float64 `json:"weight,omitempty"`
	TargetWeight     float64 `json:"target_weight,omitempty"`
	ActivityLevel    string  `json:"activity_level,omitempty"`
	Photo            string  `json:"photo,omitempty"`
	Goals            string  `json:"goals,omitempty"`
	IssuesFaced      string  `json:"issues_faced,omitempty"`
	RequiredProgress string  `json:"required_progress,omitempty"`
	FoodBowls        float64 `json:"food_bowls"` // Рекомендация: мисок еды в день
	Treats           float64 `json:"treats"`     // Рекомендация: лакомств в день
	Playtime         float64 `json:"playtime"`   // Рекомендация: минут игр в день
}

// DummyCat используется для приёма данных из JSON-запроса на создание кота.
type DummyCat struct {
	Name             string  `json:"name" validate:"required"`
	Breed            string  `json:"breed,omitempty"`
	Age              int     `json:"age,omitempty" validate:"omitempty,gte=0"`
	Gender           string  `json:"gender,omitempty"`
	Weight           float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	TargetWeight     float64 `json:"target_weight,omitempty" validate:"omitempty,gt=0"`
	ActivityLevel    string  `json:"activity_level,omitempty"`
	Photo            string  `json:"photo,omitempty"`
	Goals            string  `json:"goals,omitempty"`
	IssuesFaced      string  `json:"issues_faced,omitempty"`
	RequiredProgress string  `json:"required_progress,omitempty"`
}

// DummyCatUpdate частичное обновление профиля кота. Изменение веса,
// целевого веса или уровня активности влечёт пересчёт рекомендаций.
type DummyCatUpdate struct {
	Name             *string  `json:"name,omitempty"`
	Breed            *string  `json:"breed,omitempty"`
	Age              *int     `json:"age,omitempty" validate:"omitempty,gte=0"`
	Gender           *string  `json:"gender,omitempty"`
	Weight           *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	TargetWeight     *float64 `json:"target_weight,omitempty" validate:"omitempty,gt=0"`
	ActivityLevel    *string  `json:"activity_level,omitempty"`
	Photo            *string  `json:"photo,omitempty"`
	Goals            *string  `json:"goals,omitempty"`
	IssuesFaced      *string  `json:"issues_faced,omitempty"`
	RequiredProgress *string  `json:"required_progress,omitempty"`
}

// Empty сообщает, что в запросе не задано ни одно обновляемое поле.
func (u *DummyCatUpdate) Empty() bool {
	return u.Name == nil && u.Breed == nil && u.Age == nil && u.Gender == nil &&
		u.Weight == nil && u.TargetWeight == nil && u.ActivityLevel == nil &&
		u.Photo == nil && u.Goals == nil && u.IssuesFaced == nil &&
		u.RequiredProgress == nil
}

// NeedsRecommendations сообщает, затрагивает ли обновление поля,
// от которых зависят рекомендации по уходу.
func (u *DummyCatUpdate) NeedsRecommendations() bool {
	return u.Weight != nil || u.TargetWeight != nil || u.ActivityLevel != nil
}

// Recommendations набор KPI по уходу за котом, возвращаемый ассистентом.
type Recommendations struct {
	FoodBowls float64 `json:"food_bowls"`
	Treats    float64 `json:"treats"`
	Playtime  float64 `json:"playtime"`
}
