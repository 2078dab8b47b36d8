package repository

import (
	"icehc_portal/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Preload("Uploader").Where("id = ?", id).First(&doc).Error
	return &doc, err
}

func (r *DocumentRepository) Update(doc *model.Document) error {
	return r.DB.Save(doc).Error
}

func (r *DocumentRepository) Delete(doc *model.Document) error {
	return r.DB.Delete(doc).Error
}

func (r *DocumentRepository) List(page, limit int, keyword string) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	query := r.DB.Model(&model.Document{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Uploader").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error
	return docs, total, err
}

func (r *DocumentRepository) IncrementDownloads(id string) error {
	return r.DB.Model(&model.Document{}).
		Where("id = ?", id).
		Update("download_count", gorm.Expr("download_count + ?", 1)).
		Error
}

// ListTrash returns soft-deleted documents only.
func (r *DocumentRepository) ListTrash(page, limit int) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	query := r.DB.Unscoped().Model(&model.Document{}).Where("deleted_at IS NOT NULL")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("deleted_at DESC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, total, err
}

func (r *DocumentRepository) FindTrashed(id string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).First(&doc).Error
	return &doc, err
}

// Restore clears the soft-delete marker.
func (r *DocumentRepository) Restore(id string) error {
	return r.DB.Unscoped().Model(&model.Document{}).
		Where("id = ?", id).
		Update("deleted_at", nil).
		Error
}

// Purge removes a trashed row permanently.
func (r *DocumentRepository) Purge(id string) error {
	return r.DB.Unscoped().Where("id = ?", id).Delete(&model.Document{}).Error
}
