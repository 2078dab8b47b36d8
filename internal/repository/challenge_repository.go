package repository

import (
	"icehc_portal/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	return &challenge, err
}

func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Save(challenge).Error
}

func (r *ChallengeRepository) Delete(challenge *model.Challenge) error {
	return r.DB.Delete(challenge).Error
}

func (r *ChallengeRepository) ListActive() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("is_active = ?", true).
		Order("category ASC, points ASC").
		Find(&challenges).Error
	return challenges, err
}

type ChallengeFilter struct {
	Category   string
	Difficulty string
	Active     *bool
	Keyword    string
}

// ListAdmin returns challenges regardless of activation state, filtered and
// paginated for the admin console.
func (r *ChallengeRepository) ListAdmin(page, limit int, filter ChallengeFilter) ([]model.Challenge, int64, error) {
	var challenges []model.Challenge
	var total int64

	query := r.DB.Model(&model.Challenge{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&challenges).Error
	return challenges, total, err
}

func (r *ChallengeRepository) AddSolveCount(challengeID uint) error {
	return r.DB.Model(&model.Challenge{}).
		Where("id = ?", challengeID).
		Update("solve_count", gorm.Expr("solve_count + ?", 1)).
		Error
}

func (r *ChallengeRepository) SetActive(challengeID uint, active bool) error {
	return r.DB.Model(&model.Challenge{}).
		Where("id = ?", challengeID).
		Update("is_active", active).
		Error
}
