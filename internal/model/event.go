package model

import (
	"time"
)

// swagger:model Event
type Event struct {
	UUIDBase
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `gorm:"index;not null" json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `gorm:"default:0" json:"capacity"` // 0 means unlimited
	CreatedBy   uint      `gorm:"index" json:"createdBy"`
}

func (Event) TableName() string {
	return "events"
}

type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

// EventRSVP holds one reply per (event, member); the unique index makes the
// reply an upsert rather than an append.
type EventRSVP struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   string     `gorm:"uniqueIndex:idx_event_member;type:varchar(36);not null" json:"eventId"`
	MemberID  uint       `gorm:"uniqueIndex:idx_event_member;not null" json:"memberId"`
	Status    RSVPStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (EventRSVP) TableName() string {
	return "event_rsvps"
}
