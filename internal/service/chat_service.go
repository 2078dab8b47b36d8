package service

import (
	"errors"
	"time"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"gorm.io/gorm"
)

type ChatService struct {
	ChatRepo   *repository.ChatRepository
	MemberRepo *repository.MemberRepository
	Hub        *DMHub
}

func NewChatService(chatRepo *repository.ChatRepository, memberRepo *repository.MemberRepository, hub *DMHub) *ChatService {
	return &ChatService{
		ChatRepo:   chatRepo,
		MemberRepo: memberRepo,
		Hub:        hub,
	}
}

// OpenConversation returns the 1:1 thread with the peer, creating it on
// first contact.
func (s *ChatService) OpenConversation(memberID, peerID uint) (*model.Conversation, error) {
	if memberID == peerID {
		return nil, util.ErrNotConversationParty
	}
	if _, err := s.MemberRepo.FindByID(peerID); err != nil {
		return nil, util.ErrMemberNotFound
	}

	conv, err := s.ChatRepo.FindPrivateBetween(memberID, peerID)
	if err == nil {
		return s.ChatRepo.GetConversation(conv.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = &model.Conversation{CreatorID: memberID}
	if err := s.ChatRepo.CreateConversation(conv, []uint{memberID, peerID}); err != nil {
		return nil, err
	}
	return s.ChatRepo.GetConversation(conv.ID)
}

// ConversationSummary is one row in the member's inbox.
type ConversationSummary struct {
	model.Conversation
	UnreadCount int64 `json:"unreadCount"`
}

func (s *ChatService) ListConversations(memberID uint) ([]ConversationSummary, error) {
	convs, err := s.ChatRepo.ListForMember(memberID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		unread, err := s.ChatRepo.UnreadCount(conv.ID, memberID)
		if err != nil {
			unread = 0
		}
		summaries = append(summaries, ConversationSummary{Conversation: conv, UnreadCount: unread})
	}
	return summaries, nil
}

// SendMessage persists a direct message and pushes it to the other party.
// Resent client message ids return the original row instead of a duplicate.
func (s *ChatService) SendMessage(memberID uint, conversationID, content, clientMsgID string) (*model.DirectMessage, error) {
	conv, err := s.ChatRepo.GetConversation(conversationID)
	if err != nil {
		return nil, util.ErrConversationNotFound
	}

	party, err := s.ChatRepo.IsParty(conversationID, memberID)
	if err != nil {
		return nil, err
	}
	if !party {
		return nil, util.ErrNotConversationParty
	}

	if clientMsgID != "" {
		if existing, err := s.ChatRepo.FindByClientMsgID(conversationID, clientMsgID); err == nil {
			return existing, nil
		}
	}

	msg := model.DirectMessage{
		ConversationID: conversationID,
		SenderID:       memberID,
		Content:        content,
		ClientMsgID:    clientMsgID,
	}
	if err := s.ChatRepo.CreateMessage(&msg); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		var targets []uint
		for _, m := range conv.Members {
			if m.MemberID != memberID {
				targets = append(targets, m.MemberID)
			}
		}
		s.Hub.PushToMembers(targets, WSMessage{Type: "NEW_MESSAGE", Data: msg})
	}
	return &msg, nil
}

// History pages messages backwards from the cursor timestamp.
func (s *ChatService) History(memberID uint, conversationID string, before time.Time, limit int) ([]model.DirectMessage, error) {
	party, err := s.ChatRepo.IsParty(conversationID, memberID)
	if err != nil {
		return nil, util.ErrConversationNotFound
	}
	if !party {
		return nil, util.ErrNotConversationParty
	}

	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.ChatRepo.ListMessages(conversationID, before, limit)
}

func (s *ChatService) MarkRead(memberID uint, conversationID string) error {
	party, err := s.ChatRepo.IsParty(conversationID, memberID)
	if err != nil {
		return util.ErrConversationNotFound
	}
	if !party {
		return util.ErrNotConversationParty
	}
	return s.ChatRepo.MarkRead(conversationID, memberID)
}
