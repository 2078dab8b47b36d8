package controller

import (
	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	MemberService *service.MemberService
}

func NewLeaderboardController(memberService *service.MemberService) *LeaderboardController {
	return &LeaderboardController{MemberService: memberService}
}

// GetLeaderboard godoc
// @Summary Leaderboard page
// @Description Approved members ordered by points, ranks computed from live data
// @Tags leaderboard
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 25)

	rows, total, err := c.MemberService.Leaderboard(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: rows, Total: total, Page: page, Limit: limit})
}
