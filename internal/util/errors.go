package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberNotApproved  = errors.New("member not approved")
	ErrMemberDisabled     = errors.New("member account disabled")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeInactive = errors.New("challenge not active")
	ErrEmptyFlag         = errors.New("flag must not be empty")
	ErrAlreadySolved     = errors.New("challenge already solved")

	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrEventFull            = errors.New("event is at capacity")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotConversationParty = errors.New("not a participant of this conversation")
)
