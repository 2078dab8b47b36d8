package model

import (
	"time"
)

// Conversation is a private 1:1 thread between two members.
type Conversation struct {
	UUIDBase
	CreatorID uint                 `gorm:"index" json:"creatorId"`
	Members   []ConversationMember `gorm:"foreignKey:ConversationID" json:"members"`
	Messages  []DirectMessage      `gorm:"foreignKey:ConversationID" json:"messages"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationMember struct {
	ConversationID string     `gorm:"primaryKey;type:varchar(36)" json:"conversationId"`
	MemberID       uint       `gorm:"primaryKey;index" json:"memberId"`
	Member         Member     `gorm:"foreignKey:MemberID" json:"member"`
	LastReadAt     *time.Time `json:"lastReadAt"`
	JoinedAt       time.Time  `gorm:"autoCreateTime" json:"joinedAt"`
}

func (ConversationMember) TableName() string {
	return "conversation_members"
}

type DirectMessage struct {
	UUIDBase
	ConversationID string       `gorm:"index:idx_conv_created;type:varchar(36);not null" json:"conversationId"`
	CreatedAt      time.Time    `gorm:"index:idx_conv_created" json:"createdAt"` // (conversation_id, created_at) serves history paging
	SenderID       uint         `gorm:"index" json:"senderId"`
	Sender         Member       `gorm:"foreignKey:SenderID" json:"sender"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	ClientMsgID    string       `gorm:"size:50;index" json:"clientMsgId"` // dedupes client retries
	Conversation   Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}

func (DirectMessage) TableName() string {
	return "direct_messages"
}
