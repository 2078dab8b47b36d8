package service

import (
	"fmt"
	"strconv"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/pkg/logger"

	"go.uber.org/zap"
)

// NotificationService persists in-app notifications and pushes them to
// connected members through the hub.
type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	MemberRepo       *repository.MemberRepository
	Hub              *DMHub
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, memberRepo *repository.MemberRepository, hub *DMHub) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		MemberRepo:       memberRepo,
		Hub:              hub,
	}
}

func (s *NotificationService) push(memberIDs []uint, n model.Notification) {
	if s.Hub == nil || len(memberIDs) == 0 {
		return
	}
	s.Hub.PushToMembers(memberIDs, WSMessage{Type: "NOTIFICATION", Data: n})
}

// NotifyAllApproved fans one notification out to every approved member
// except the author.
func (s *NotificationService) NotifyAllApproved(kind model.NotificationKind, refID, body string, excludeID uint) {
	ids, err := s.MemberRepo.ApprovedIDs()
	if err != nil {
		logger.Log.Error("Notification fan-out failed to list members", zap.Error(err))
		return
	}

	notifications := make([]model.Notification, 0, len(ids))
	targets := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == excludeID {
			continue
		}
		notifications = append(notifications, model.Notification{
			MemberID: id,
			Kind:     kind,
			RefID:    refID,
			Body:     body,
		})
		targets = append(targets, id)
	}

	if err := s.NotificationRepo.CreateBatch(notifications); err != nil {
		logger.Log.Error("Notification fan-out failed to persist", zap.Error(err))
		return
	}

	s.push(targets, model.Notification{Kind: kind, RefID: refID, Body: body})
}

func (s *NotificationService) NotifyMember(memberID uint, kind model.NotificationKind, refID, body string) {
	n := model.Notification{
		MemberID: memberID,
		Kind:     kind,
		RefID:    refID,
		Body:     body,
	}
	if err := s.NotificationRepo.Create(&n); err != nil {
		logger.Log.Error("Failed to persist notification", zap.Uint("memberId", memberID), zap.Error(err))
		return
	}
	s.push([]uint{memberID}, n)
}

// NotifySolve announces a counted solve to the rest of the club.
func (s *NotificationService) NotifySolve(member *model.Member, challenge *model.Challenge) {
	body := fmt.Sprintf("%s solved %s (+%d)", member.Name, challenge.Title, challenge.Points)
	s.NotifyAllApproved(model.NotifySolve, strconv.FormatUint(uint64(challenge.ID), 10), body, member.ID)
}

func (s *NotificationService) List(memberID uint, page, limit int, unreadOnly bool) ([]model.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.NotificationRepo.ListForMember(memberID, page, limit, unreadOnly)
}

func (s *NotificationService) MarkRead(memberID, notificationID uint) error {
	return s.NotificationRepo.MarkRead(memberID, notificationID)
}

func (s *NotificationService) MarkAllRead(memberID uint) error {
	return s.NotificationRepo.MarkAllRead(memberID)
}

func (s *NotificationService) UnreadCount(memberID uint) (int64, error) {
	return s.NotificationRepo.UnreadCount(memberID)
}
