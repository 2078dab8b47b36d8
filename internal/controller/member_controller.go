package controller

import (
	"errors"

	"icehc_portal/internal/model"
	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type MemberController struct {
	MemberService *service.MemberService
}

func NewMemberController(memberService *service.MemberService) *MemberController {
	return &MemberController{MemberService: memberService}
}

// GetMember godoc
// @Summary Public member profile
// @Tags members
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Member ID"
// @Success 200 {object} util.Response{data=model.Member} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/members/{id} [get]
func (c *MemberController) GetMember(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid member id")
		return
	}

	member, err := c.MemberService.GetProfile(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, member)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags members
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProfileUpdate true "Profile fields"
// @Success 200 {object} util.Response{data=model.Member} "Success"
// @Router /api/profile [put]
func (c *MemberController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var update service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	member, err := c.MemberService.UpdateProfile(claims.MemberID, update)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, member)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary Change own password
// @Tags members
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Wrong old password"
// @Router /api/profile/password [put]
func (c *MemberController) ChangePassword(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MemberService.ChangePassword(claims.MemberID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// GetMyRank godoc
// @Summary Current member's rank
// @Description Competition rank computed from live points
// @Tags members
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/profile/rank [get]
func (c *MemberController) GetMyRank(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rank, points, err := c.MemberService.RankOf(claims.MemberID)
	if err != nil {
		if errors.Is(err, util.ErrMemberNotApproved) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"rank": rank, "points": points})
}

// ListMembers godoc
// @Summary List members (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Param   status query string false "pending|approved|rejected"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/admin/members [get]
func (c *MemberController) ListMembers(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 20)
	status := model.MemberStatus(ctx.Query("status"))

	members, total, err := c.MemberService.ListMembers(page, limit, status)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: members, Total: total, Page: page, Limit: limit})
}

type StatusRequest struct {
	Status model.MemberStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

// SetStatus godoc
// @Summary Approve or reject a membership (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Member ID"
// @Param   body body StatusRequest true "New status"
// @Success 200 {object} util.Response{data=model.Member} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/members/{id}/status [put]
func (c *MemberController) SetStatus(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid member id")
		return
	}

	var req StatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	member, err := c.MemberService.SetStatus(id, req.Status)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, member)
}

type RoleRequest struct {
	Role model.MemberRole `json:"role" binding:"required,oneof=member admin superadmin"`
}

// SetRole godoc
// @Summary Change a member's role (superadmin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Member ID"
// @Param   body body RoleRequest true "New role"
// @Success 200 {object} util.Response{data=model.Member} "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/members/{id}/role [put]
func (c *MemberController) SetRole(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid member id")
		return
	}

	var req RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	member, err := c.MemberService.SetRole(claims, id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrMemberNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, member)
}

type DisableRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetDisabled godoc
// @Summary Disable or re-enable an account (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Member ID"
// @Param   body body DisableRequest true "Disabled flag"
// @Success 200 {object} util.Response{data=model.Member} "Success"
// @Router /api/admin/members/{id}/disabled [put]
func (c *MemberController) SetDisabled(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid member id")
		return
	}

	var req DisableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	member, err := c.MemberService.SetDisabled(id, *req.Disabled)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, member)
}

// ResetPoints godoc
// @Summary Rebuild a member's points from counted solves (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Member ID"
// @Success 200 {object} util.Response{data=model.Member} "Success"
// @Router /api/admin/members/{id}/reset-points [post]
func (c *MemberController) ResetPoints(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid member id")
		return
	}

	member, err := c.MemberService.ResetPoints(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, member)
}

// DeleteMember godoc
// @Summary Remove a member (superadmin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Member ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/members/{id} [delete]
func (c *MemberController) DeleteMember(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid member id")
		return
	}

	if err := c.MemberService.DeleteMember(id); err != nil {
		if errors.Is(err, util.ErrMemberNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
