package service

import (
	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"
)

type AnnouncementService struct {
	AnnouncementRepo *repository.AnnouncementRepository
	NotificationSvc  *NotificationService
}

func NewAnnouncementService(announcementRepo *repository.AnnouncementRepository, notificationSvc *NotificationService) *AnnouncementService {
	return &AnnouncementService{
		AnnouncementRepo: announcementRepo,
		NotificationSvc:  notificationSvc,
	}
}

func (s *AnnouncementService) List(page, limit int) ([]model.Announcement, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.AnnouncementRepo.List(page, limit)
}

func (s *AnnouncementService) Get(id string) (*model.Announcement, error) {
	a, err := s.AnnouncementRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrAnnouncementNotFound
	}
	// View counting is best effort.
	_ = s.AnnouncementRepo.IncrementViews(id)
	return a, nil
}

func (s *AnnouncementService) Create(authorID uint, title, content string, pinned bool) (*model.Announcement, error) {
	a := model.Announcement{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
		IsPinned: pinned,
	}
	if err := s.AnnouncementRepo.Create(&a); err != nil {
		return nil, err
	}

	if s.NotificationSvc != nil {
		s.NotificationSvc.NotifyAllApproved(model.NotifyAnnouncement, a.ID, a.Title, authorID)
	}
	return &a, nil
}

func (s *AnnouncementService) Update(id, title, content string, pinned bool) (*model.Announcement, error) {
	a, err := s.AnnouncementRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrAnnouncementNotFound
	}

	a.Title = title
	a.Content = content
	a.IsPinned = pinned
	if err := s.AnnouncementRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Delete(id string) error {
	a, err := s.AnnouncementRepo.FindByID(id)
	if err != nil {
		return util.ErrAnnouncementNotFound
	}
	return s.AnnouncementRepo.Delete(a)
}
