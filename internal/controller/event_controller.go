package controller

import (
	"errors"

	"icehc_portal/internal/model"
	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// ListEvents godoc
// @Summary Upcoming events
// @Tags events
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Param   past query bool false "List past events instead"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 20)

	var (
		events []service.EventView
		total  int64
		err    error
	)
	if ctx.Query("past") == "true" {
		events, total, err = c.EventService.ListPast(claims.MemberID, page, limit)
	} else {
		events, total, err = c.EventService.ListUpcoming(claims.MemberID, page, limit)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: events, Total: total, Page: page, Limit: limit})
}

// GetEvent godoc
// @Summary One event
// @Tags events
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Event ID"
// @Success 200 {object} util.Response{data=service.EventView} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.EventService.Get(ctx.Param("id"), claims.MemberID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, view)
}

type RSVPRequest struct {
	Status model.RSVPStatus `json:"status" binding:"required,oneof=going maybe declined"`
}

// RSVP godoc
// @Summary Reply to an event
// @Description Going replies are limited by capacity
// @Tags events
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Event ID"
// @Param   body body RSVPRequest true "Reply"
// @Success 200 {object} util.Response{data=model.EventRSVP} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Failure 409 {object} util.Response "Event is full"
// @Router /api/events/{id}/rsvp [post]
func (c *EventController) RSVP(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rsvp, err := c.EventService.RSVP(ctx.Param("id"), claims.MemberID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEventNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEventFull):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, rsvp)
}

// Attendees godoc
// @Summary Event replies (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Event ID"
// @Success 200 {object} util.Response{data=[]model.EventRSVP} "Success"
// @Router /api/admin/events/{id}/attendees [get]
func (c *EventController) Attendees(ctx *gin.Context) {
	rsvps, err := c.EventService.Attendees(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, rsvps)
}

// CreateEvent godoc
// @Summary Schedule an event (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.EventInput true "Event"
// @Success 201 {object} util.Response{data=model.Event} "Created"
// @Router /api/admin/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.EventInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.EventService.Create(claims.MemberID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// UpdateEvent godoc
// @Summary Edit an event (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Event ID"
// @Param   body body service.EventInput true "Event"
// @Success 200 {object} util.Response{data=model.Event} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	var input service.EventInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.EventService.Update(ctx.Param("id"), input)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, event)
}

// DeleteEvent godoc
// @Summary Cancel an event (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Event ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	if err := c.EventService.Delete(ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}
