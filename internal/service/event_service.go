package service

import (
	"errors"
	"time"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"gorm.io/gorm"
)

type EventService struct {
	EventRepo       *repository.EventRepository
	NotificationSvc *NotificationService
}

func NewEventService(eventRepo *repository.EventRepository, notificationSvc *NotificationService) *EventService {
	return &EventService{
		EventRepo:       eventRepo,
		NotificationSvc: notificationSvc,
	}
}

// EventView decorates an event with attendance numbers and the viewing
// member's own reply.
type EventView struct {
	model.Event
	GoingCount int64            `json:"goingCount"`
	MyStatus   model.RSVPStatus `json:"myStatus,omitempty"`
}

func (s *EventService) ListUpcoming(memberID uint, page, limit int) ([]EventView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	events, total, err := s.EventRepo.ListUpcoming(page, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(events, memberID)
	return views, total, err
}

func (s *EventService) ListPast(memberID uint, page, limit int) ([]EventView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	events, total, err := s.EventRepo.ListPast(page, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(events, memberID)
	return views, total, err
}

func (s *EventService) decorate(events []model.Event, memberID uint) ([]EventView, error) {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		going, err := s.EventRepo.CountGoing(e.ID)
		if err != nil {
			return nil, err
		}
		view := EventView{Event: e, GoingCount: going}
		if rsvp, err := s.EventRepo.FindRSVP(e.ID, memberID); err == nil {
			view.MyStatus = rsvp.Status
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *EventService) Get(id string, memberID uint) (*EventView, error) {
	event, err := s.EventRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrEventNotFound
	}

	going, err := s.EventRepo.CountGoing(event.ID)
	if err != nil {
		return nil, err
	}

	view := EventView{Event: *event, GoingCount: going}
	if rsvp, err := s.EventRepo.FindRSVP(event.ID, memberID); err == nil {
		view.MyStatus = rsvp.Status
	}
	return &view, nil
}

type EventInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `json:"capacity"`
}

func (s *EventService) Create(creatorID uint, input EventInput) (*model.Event, error) {
	if input.EndsAt.IsZero() {
		input.EndsAt = input.StartsAt.Add(2 * time.Hour)
	}

	event := model.Event{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Capacity:    input.Capacity,
		CreatedBy:   creatorID,
	}
	if err := s.EventRepo.Create(&event); err != nil {
		return nil, err
	}

	if s.NotificationSvc != nil {
		s.NotificationSvc.NotifyAllApproved(model.NotifyEvent, event.ID, event.Title, creatorID)
	}
	return &event, nil
}

func (s *EventService) Update(id string, input EventInput) (*model.Event, error) {
	event, err := s.EventRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrEventNotFound
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Location = input.Location
	event.StartsAt = input.StartsAt
	if !input.EndsAt.IsZero() {
		event.EndsAt = input.EndsAt
	}
	event.Capacity = input.Capacity

	if err := s.EventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(id string) error {
	event, err := s.EventRepo.FindByID(id)
	if err != nil {
		return util.ErrEventNotFound
	}
	return s.EventRepo.Delete(event)
}

// RSVP records or changes a member's reply. Capacity only limits "going"
// replies; switching away from going frees a slot.
func (s *EventService) RSVP(eventID string, memberID uint, status model.RSVPStatus) (*model.EventRSVP, error) {
	event, err := s.EventRepo.FindByID(eventID)
	if err != nil {
		return nil, util.ErrEventNotFound
	}

	existing, err := s.EventRepo.FindRSVP(eventID, memberID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hadRSVP := err == nil

	if status == model.RSVPGoing && event.Capacity > 0 {
		alreadyGoing := hadRSVP && existing.Status == model.RSVPGoing
		if !alreadyGoing {
			going, err := s.EventRepo.CountGoing(eventID)
			if err != nil {
				return nil, err
			}
			if going >= int64(event.Capacity) {
				return nil, util.ErrEventFull
			}
		}
	}

	if hadRSVP {
		existing.Status = status
		if err := s.EventRepo.UpdateRSVP(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	rsvp := model.EventRSVP{
		EventID:  eventID,
		MemberID: memberID,
		Status:   status,
	}
	if err := s.EventRepo.CreateRSVP(&rsvp); err != nil {
		// Lost a race with another reply from the same member; retry as an
		// update.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.RSVP(eventID, memberID, status)
		}
		return nil, err
	}
	return &rsvp, nil
}

func (s *EventService) Attendees(eventID string) ([]model.EventRSVP, error) {
	if _, err := s.EventRepo.FindByID(eventID); err != nil {
		return nil, util.ErrEventNotFound
	}
	return s.EventRepo.ListRSVPs(eventID)
}
