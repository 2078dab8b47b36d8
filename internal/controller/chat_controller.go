package controller

import (
	"errors"
	"time"

	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
	Hub         *service.DMHub
}

func NewChatController(chatService *service.ChatService, hub *service.DMHub) *ChatController {
	return &ChatController{
		ChatService: chatService,
		Hub:         hub,
	}
}

type OpenConversationRequest struct {
	PeerID uint `json:"peerId" binding:"required"`
}

// OpenConversation godoc
// @Summary Open a direct-message thread
// @Description Returns the existing 1:1 conversation with the peer or creates it
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body OpenConversationRequest true "Peer member"
// @Success 200 {object} util.Response{data=model.Conversation} "Success"
// @Failure 404 {object} util.Response "Peer not found"
// @Router /api/conversations [post]
func (c *ChatController) OpenConversation(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req OpenConversationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	conv, err := c.ChatService.OpenConversation(claims.MemberID, req.PeerID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMemberNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotConversationParty):
			util.BadRequest(ctx, "cannot open a conversation with yourself")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, conv)
}

// ListConversations godoc
// @Summary Inbox
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ConversationSummary} "Success"
// @Router /api/conversations [get]
func (c *ChatController) ListConversations(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.ChatService.ListConversations(claims.MemberID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

type SendMessageRequest struct {
	Content     string `json:"content" binding:"required,max=4000"`
	ClientMsgID string `json:"clientMsgId"`
}

// SendMessage godoc
// @Summary Send a direct message
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Conversation ID"
// @Param   body body SendMessageRequest true "Message"
// @Success 201 {object} util.Response{data=model.DirectMessage} "Created"
// @Failure 403 {object} util.Response "Not a participant"
// @Failure 404 {object} util.Response "Conversation not found"
// @Router /api/conversations/{id}/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.ChatService.SendMessage(claims.MemberID, ctx.Param("id"), req.Content, req.ClientMsgID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConversationNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotConversationParty):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, msg)
}

// History godoc
// @Summary Message history
// @Description Pages backwards; pass the oldest seen timestamp as before
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Conversation ID"
// @Param   before query string false "RFC3339 cursor"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=[]model.DirectMessage} "Success"
// @Router /api/conversations/{id}/messages [get]
func (c *ChatController) History(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var before time.Time
	if raw := ctx.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.BadRequest(ctx, "before must be RFC3339")
			return
		}
		before = parsed
	}
	limit := util.QueryInt(ctx, "limit", 50)

	msgs, err := c.ChatService.History(claims.MemberID, ctx.Param("id"), before, limit)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConversationNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotConversationParty):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, msgs)
}

// MarkRead godoc
// @Summary Mark a conversation read
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Conversation ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/conversations/{id}/read [post]
func (c *ChatController) MarkRead(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ChatService.MarkRead(claims.MemberID, ctx.Param("id")); err != nil {
		switch {
		case errors.Is(err, util.ErrConversationNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotConversationParty):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ServeWs godoc
// @Summary WebSocket endpoint for realtime delivery
// @Tags chat
// @Security ApiKeyAuth
// @Router /api/ws [get]
func (c *ChatController) ServeWs(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.MemberID)
}
