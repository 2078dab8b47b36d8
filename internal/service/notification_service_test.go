package service

import (
	"testing"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"

	"gorm.io/gorm"
)

func newNotificationService(db *gorm.DB) *NotificationService {
	return NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewMemberRepository(db),
		nil,
	)
}

func TestNotifyAllApprovedExcludesAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationService(db)

	author := createMember(t, db, "alice", 0, model.StatusApproved)
	reader := createMember(t, db, "bob", 0, model.StatusApproved)
	createMember(t, db, "pending", 0, model.StatusPending)

	svc.NotifyAllApproved(model.NotifyAnnouncement, "1", "Meeting moved to Thursday", author.ID)

	authorRows, _, err := svc.List(author.ID, 1, 20, false)
	if err != nil {
		t.Fatalf("list author: %v", err)
	}
	if len(authorRows) != 0 {
		t.Fatalf("author notified about their own post: %+v", authorRows)
	}

	readerRows, _, err := svc.List(reader.ID, 1, 20, false)
	if err != nil {
		t.Fatalf("list reader: %v", err)
	}
	if len(readerRows) != 1 || readerRows[0].Body != "Meeting moved to Thursday" {
		t.Fatalf("reader notifications = %+v", readerRows)
	}

	// Pending members are outside the fan-out.
	var total int64
	db.Model(&model.Notification{}).Count(&total)
	if total != 1 {
		t.Fatalf("notification rows = %d, want 1", total)
	}
}

func TestNotificationReadFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationService(db)
	member := createMember(t, db, "alice", 0, model.StatusApproved)

	svc.NotifyMember(member.ID, model.NotifyEvent, "ev-1", "CTF Night this Friday")
	svc.NotifyMember(member.ID, model.NotifyEvent, "ev-2", "Workshop next week")

	unread, err := svc.UnreadCount(member.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unread != 2 {
		t.Fatalf("unread = %d, want 2", unread)
	}

	rows, _, _ := svc.List(member.ID, 1, 20, true)
	if len(rows) != 2 {
		t.Fatalf("unread listing = %d rows", len(rows))
	}

	if err := svc.MarkRead(member.ID, rows[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, _ = svc.UnreadCount(member.ID)
	if unread != 1 {
		t.Fatalf("unread after one read = %d", unread)
	}

	if err := svc.MarkAllRead(member.ID); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	unread, _ = svc.UnreadCount(member.ID)
	if unread != 0 {
		t.Fatalf("unread after mark all = %d", unread)
	}

	// Read markers are per member; another member cannot flip them.
	other := createMember(t, db, "bob", 0, model.StatusApproved)
	svc.NotifyMember(other.ID, model.NotifyEvent, "ev-3", "Elections soon")
	svc.MarkAllRead(member.ID)
	unread, _ = svc.UnreadCount(other.ID)
	if unread != 1 {
		t.Fatalf("cross-member mark read leaked: unread = %d", unread)
	}
}
