package controller

import (
	"errors"

	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoringController struct {
	ScoringService *service.ScoringService
}

func NewScoringController(scoringService *service.ScoringService) *ScoringController {
	return &ScoringController{ScoringService: scoringService}
}

// swagger:model SubmitFlagRequest
type SubmitFlagRequest struct {
	ChallengeID uint   `json:"challengeId" binding:"required"`
	Flag        string `json:"flag" binding:"required"`
}

// SubmitFlag godoc
// @Summary Submit a flag
// @Description Evaluates the flag and awards points on a first correct solve
// @Tags scoring
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitFlagRequest true "Challenge and flag"
// @Success 200 {object} util.Response{data=service.SubmitResult} "Evaluated"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 403 {object} util.Response "Not approved or challenge not active"
// @Failure 404 {object} util.Response "Challenge not found"
// @Router /api/challenges/submit [post]
func (c *ScoringController) SubmitFlag(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitFlagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ScoringService.SubmitFlag(claims.MemberID, req.ChallengeID, req.Flag, ctx.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyFlag):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrMemberNotApproved), errors.Is(err, util.ErrMemberDisabled),
			errors.Is(err, util.ErrChallengeInactive):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrChallengeNotFound), errors.Is(err, util.ErrMemberNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// SolveFeed godoc
// @Summary Recent solves
// @Tags scoring
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "Max entries"
// @Success 200 {object} util.Response{data=[]model.SolveFeedEntry} "Success"
// @Router /api/solves/recent [get]
func (c *ScoringController) SolveFeed(ctx *gin.Context) {
	limit := util.QueryInt(ctx, "limit", 20)

	feed, err := c.ScoringService.SolveFeed(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, feed)
}

// SubmissionLogs godoc
// @Summary Submission audit trail (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Param   challengeId query int false "Filter by challenge"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/admin/submissions [get]
func (c *ScoringController) SubmissionLogs(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 50)
	challengeID := util.MustParseUint(ctx.Query("challengeId"))

	logs, total, err := c.ScoringService.SubmissionLogs(page, limit, challengeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: logs, Total: total, Page: page, Limit: limit})
}
