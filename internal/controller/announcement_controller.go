package controller

import (
	"errors"

	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type AnnouncementController struct {
	AnnouncementService *service.AnnouncementService
}

func NewAnnouncementController(announcementService *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{AnnouncementService: announcementService}
}

// ListAnnouncements godoc
// @Summary Announcements
// @Description Pinned announcements first, then newest
// @Tags announcements
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 20)

	announcements, total, err := c.AnnouncementService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: announcements, Total: total, Page: page, Limit: limit})
}

// GetAnnouncement godoc
// @Summary One announcement
// @Tags announcements
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Announcement ID"
// @Success 200 {object} util.Response{data=model.Announcement} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/announcements/{id} [get]
func (c *AnnouncementController) GetAnnouncement(ctx *gin.Context) {
	a, err := c.AnnouncementService.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, a)
}

type AnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	IsPinned bool   `json:"isPinned"`
}

// CreateAnnouncement godoc
// @Summary Publish an announcement (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AnnouncementRequest true "Announcement"
// @Success 201 {object} util.Response{data=model.Announcement} "Created"
// @Router /api/admin/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AnnouncementService.Create(claims.MemberID, req.Title, req.Content, req.IsPinned)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// UpdateAnnouncement godoc
// @Summary Edit an announcement (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Announcement ID"
// @Param   body body AnnouncementRequest true "Announcement"
// @Success 200 {object} util.Response{data=model.Announcement} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/announcements/{id} [put]
func (c *AnnouncementController) UpdateAnnouncement(ctx *gin.Context) {
	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AnnouncementService.Update(ctx.Param("id"), req.Title, req.Content, req.IsPinned)
	if err != nil {
		if errors.Is(err, util.ErrAnnouncementNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, a)
}

// DeleteAnnouncement godoc
// @Summary Remove an announcement (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Announcement ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	if err := c.AnnouncementService.Delete(ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}
