package controller

import (
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RollupController struct {
	RollupService *service.RollupService
}

func NewRollupController(rollupService *service.RollupService) *RollupController {
	return &RollupController{RollupService: rollupService}
}

// @Summary Guardian classroom rollup
// @Description Per-child courses, upcoming work, submissions and the
// cross-child aggregate for every student linked to the caller.
// @Tags classroom
// @Produce json
// @Security BearerAuth
// @Router /api/parent/classroom [get]
func (c *RollupController) GetRollup(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rollup, err := c.RollupService.Rollup(ctx.Request.Context(), claims.UserID)
	if err != nil {
		c.rollupError(ctx, err)
		return
	}

	util.Success(ctx, rollup)
}

// @Summary Refresh the whole rollup
// @Tags classroom
// @Produce json
// @Security BearerAuth
// @Router /api/parent/classroom/refresh [post]
func (c *RollupController) RefreshAll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rollup, err := c.RollupService.RefreshAll(ctx.Request.Context(), claims.UserID)
	if err != nil {
		c.rollupError(ctx, err)
		return
	}

	util.Success(ctx, rollup)
}

// @Summary Refresh one child's slice of the rollup
// @Tags classroom
// @Param childId path int true "child user ID"
// @Produce json
// @Security BearerAuth
// @Router /api/parent/classroom/children/{childId}/refresh [post]
func (c *RollupController) RefreshChild(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	childID, err := strconv.ParseUint(ctx.Param("childId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid childId")
		return
	}

	rollup, err := c.RollupService.RefreshChild(ctx.Request.Context(), claims.UserID, uint(childID))
	if err != nil {
		if errors.Is(err, util.ErrDependentNotFound) {
			util.NotFound(ctx)
			return
		}
		c.rollupError(ctx, err)
		return
	}

	util.Success(ctx, rollup)
}

func (c *RollupController) rollupError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNotAuthenticated):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrDirectoryUnavailable):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
