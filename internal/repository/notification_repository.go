package repository

import (
	"icehc_portal/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

// CreateBatch inserts fan-out notifications in chunks.
func (r *NotificationRepository) CreateBatch(notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.DB.CreateInBatches(notifications, 200).Error
}

func (r *NotificationRepository) ListForMember(memberID uint, page, limit int, unreadOnly bool) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := r.DB.Model(&model.Notification{}).Where("member_id = ?", memberID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) MarkRead(memberID, notificationID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("id = ? AND member_id = ?", notificationID, memberID).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(memberID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("member_id = ? AND is_read = ?", memberID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) UnreadCount(memberID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("member_id = ? AND is_read = ?", memberID, false).
		Count(&count).Error
	return count, err
}
