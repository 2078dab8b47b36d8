package repository

import (
	"icehc_portal/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	DB *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{DB: db}
}

func (r *AnnouncementRepository) Create(a *model.Announcement) error {
	return r.DB.Create(a).Error
}

func (r *AnnouncementRepository) FindByID(id string) (*model.Announcement, error) {
	var a model.Announcement
	err := r.DB.Preload("Author").Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *AnnouncementRepository) Update(a *model.Announcement) error {
	return r.DB.Save(a).Error
}

func (r *AnnouncementRepository) Delete(a *model.Announcement) error {
	return r.DB.Delete(a).Error
}

// List returns announcements pinned-first, newest within each group.
func (r *AnnouncementRepository) List(page, limit int) ([]model.Announcement, int64, error) {
	var announcements []model.Announcement
	var total int64

	if err := r.DB.Model(&model.Announcement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Preload("Author").
		Order("is_pinned DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&announcements).Error
	return announcements, total, err
}

func (r *AnnouncementRepository) IncrementViews(id string) error {
	return r.DB.Model(&model.Announcement{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + ?", 1)).
		Error
}
