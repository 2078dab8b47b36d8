package repository

import (
	"time"

	"icehc_portal/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) FindByID(id string) (*model.Event, error) {
	var event model.Event
	err := r.DB.Where("id = ?", id).First(&event).Error
	return &event, err
}

func (r *EventRepository) Update(event *model.Event) error {
	return r.DB.Save(event).Error
}

func (r *EventRepository) Delete(event *model.Event) error {
	return r.DB.Delete(event).Error
}

// ListUpcoming returns events that have not ended yet, soonest first.
func (r *EventRepository) ListUpcoming(page, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	query := r.DB.Model(&model.Event{}).Where("ends_at >= ?", time.Now())
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("starts_at ASC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *EventRepository) ListPast(page, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	query := r.DB.Model(&model.Event{}).Where("ends_at < ?", time.Now())
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("starts_at DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *EventRepository) FindRSVP(eventID string, memberID uint) (*model.EventRSVP, error) {
	var rsvp model.EventRSVP
	err := r.DB.Where("event_id = ? AND member_id = ?", eventID, memberID).First(&rsvp).Error
	return &rsvp, err
}

func (r *EventRepository) CreateRSVP(rsvp *model.EventRSVP) error {
	return r.DB.Create(rsvp).Error
}

func (r *EventRepository) UpdateRSVP(rsvp *model.EventRSVP) error {
	return r.DB.Save(rsvp).Error
}

func (r *EventRepository) CountGoing(eventID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EventRSVP{}).
		Where("event_id = ? AND status = ?", eventID, model.RSVPGoing).
		Count(&count).Error
	return count, err
}

func (r *EventRepository) ListRSVPs(eventID string) ([]model.EventRSVP, error) {
	var rsvps []model.EventRSVP
	err := r.DB.Where("event_id = ?", eventID).Order("updated_at ASC").Find(&rsvps).Error
	return rsvps, err
}
