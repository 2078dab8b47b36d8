package model

import (
	"time"
)

type NotificationKind string

const (
	NotifyAnnouncement NotificationKind = "announcement"
	NotifyEvent        NotificationKind = "event"
	NotifyMessage      NotificationKind = "message"
	NotifySolve        NotificationKind = "solve"
)

// swagger:model Notification
type Notification struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID  uint             `gorm:"index;not null" json:"memberId"`
	Kind      NotificationKind `gorm:"size:20;not null" json:"kind"`
	RefID     string           `gorm:"size:36" json:"refId"` // id of the announcement/event/conversation/challenge
	Body      string           `gorm:"size:255" json:"body"`
	IsRead    bool             `gorm:"default:false;index" json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
