package repository

import (
	"time"

	"icehc_portal/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// FindPrivateBetween locates the existing 1:1 conversation for the pair, in
// either creation order.
func (r *ChatRepository) FindPrivateBetween(memberA, memberB uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.
		Joins("JOIN conversation_members cm1 ON cm1.conversation_id = conversations.id AND cm1.member_id = ?", memberA).
		Joins("JOIN conversation_members cm2 ON cm2.conversation_id = conversations.id AND cm2.member_id = ?", memberB).
		First(&conv).Error
	return &conv, err
}

func (r *ChatRepository) CreateConversation(conv *model.Conversation, memberIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, id := range memberIDs {
			cm := model.ConversationMember{
				ConversationID: conv.ID,
				MemberID:       id,
			}
			if err := tx.Create(&cm).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ChatRepository) GetConversation(id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.Preload("Members.Member").Where("id = ?", id).First(&conv).Error
	return &conv, err
}

func (r *ChatRepository) IsParty(conversationID string, memberID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND member_id = ?", conversationID, memberID).
		Count(&count).Error
	return count > 0, err
}

// ListForMember returns the member's conversations, most recently active
// first.
func (r *ChatRepository) ListForMember(memberID uint) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.DB.Preload("Members.Member").
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id").
		Where("cm.member_id = ?", memberID).
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	return convs, err
}

func (r *ChatRepository) CreateMessage(msg *model.DirectMessage) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now()).Error
	})
}

func (r *ChatRepository) FindByClientMsgID(conversationID, clientMsgID string) (*model.DirectMessage, error) {
	var msg model.DirectMessage
	err := r.DB.Where("conversation_id = ? AND client_msg_id = ?", conversationID, clientMsgID).
		First(&msg).Error
	return &msg, err
}

// ListMessages pages history backwards from the cursor. A zero cursor means
// start from the newest message.
func (r *ChatRepository) ListMessages(conversationID string, before time.Time, limit int) ([]model.DirectMessage, error) {
	var msgs []model.DirectMessage
	query := r.DB.Preload("Sender").Where("conversation_id = ?", conversationID)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}

func (r *ChatRepository) MarkRead(conversationID string, memberID uint) error {
	now := time.Now()
	return r.DB.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND member_id = ?", conversationID, memberID).
		Update("last_read_at", now).Error
}

// UnreadCount counts messages from others newer than the member's read
// marker.
func (r *ChatRepository) UnreadCount(conversationID string, memberID uint) (int64, error) {
	var cm model.ConversationMember
	err := r.DB.Where("conversation_id = ? AND member_id = ?", conversationID, memberID).
		First(&cm).Error
	if err != nil {
		return 0, err
	}

	var count int64
	query := r.DB.Model(&model.DirectMessage{}).
		Where("conversation_id = ? AND sender_id <> ?", conversationID, memberID)
	if cm.LastReadAt != nil {
		query = query.Where("created_at > ?", *cm.LastReadAt)
	}
	err = query.Count(&count).Error
	return count, err
}
