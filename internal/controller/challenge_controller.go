package controller

import (
	"errors"
	"strconv"

	"icehc_portal/internal/repository"
	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

// ListChallenges godoc
// @Summary Active challenges
// @Description Active challenges annotated with the member's solve state. Flags are never included.
// @Tags challenges
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ChallengeView} "Success"
// @Router /api/challenges [get]
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := c.ChallengeService.ListForMember(claims.MemberID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// GetChallenge godoc
// @Summary One active challenge
// @Tags challenges
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Success 200 {object} util.Response{data=service.ChallengeView} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	view, err := c.ChallengeService.GetForMember(claims.MemberID, id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, view)
}

// ListAdmin godoc
// @Summary List all challenges (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Param   category query string false "Category filter"
// @Param   difficulty query string false "Difficulty filter"
// @Param   active query bool false "Activation filter"
// @Param   keyword query string false "Title/description search"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/admin/challenges [get]
func (c *ChallengeController) ListAdmin(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 20)

	filter := repository.ChallengeFilter{
		Category:   ctx.Query("category"),
		Difficulty: ctx.Query("difficulty"),
		Keyword:    ctx.Query("keyword"),
	}
	if raw := ctx.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}

	challenges, total, err := c.ChallengeService.ListAdmin(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: challenges, Total: total, Page: page, Limit: limit})
}

// CreateChallenge godoc
// @Summary Create a challenge (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ChallengeInput true "Challenge definition"
// @Success 201 {object} util.Response{data=model.Challenge} "Created"
// @Failure 400 {object} util.Response "Invalid request"
// @Router /api/admin/challenges [post]
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.ChallengeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.Create(claims.MemberID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, challenge)
}

// UpdateChallenge godoc
// @Summary Edit a challenge (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Param   body body service.ChallengeInput true "Challenge definition"
// @Success 200 {object} util.Response{data=model.Challenge} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/challenges/{id} [put]
func (c *ChallengeController) UpdateChallenge(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	var input service.ChallengeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.Update(id, input)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, challenge)
}

type ActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive godoc
// @Summary Activate or retire a challenge (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Param   body body ActiveRequest true "Activation flag"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/challenges/{id}/active [put]
func (c *ChallengeController) SetActive(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	var req ActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ChallengeService.SetActive(id, *req.IsActive); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}

// DeleteChallenge godoc
// @Summary Delete a challenge (admin)
// @Description Counted solves and awarded points are kept
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/challenges/{id} [delete]
func (c *ChallengeController) DeleteChallenge(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	if err := c.ChallengeService.Delete(id); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}
