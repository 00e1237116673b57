package controller

import (
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LinkingController struct {
	LinkingService *service.LinkingService
}

func NewLinkingController(linkingService *service.LinkingService) *LinkingController {
	return &LinkingController{LinkingService: linkingService}
}

// @Summary Generate a linking code for the calling student
// @Tags linking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/linking/codes [post]
func (c *LinkingController) GenerateCode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		InstitutionalEmail string `json:"institutionalEmail"`
		ClassroomEmail     string `json:"classroomEmail"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	code, err := c.LinkingService.GenerateCode(claims.UserID, req.InstitutionalEmail, req.ClassroomEmail)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, code)
}

// @Summary List the calling student's linking codes
// @Tags linking
// @Produce json
// @Security BearerAuth
// @Router /api/linking/codes [get]
func (c *LinkingController) ListCodes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	codes, err := c.LinkingService.CodesForStudent(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, codes)
}

// @Summary Redeem a linking code, creating a parent-student relation
// @Tags linking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/linking/redeem [post]
func (c *LinkingController) RedeemCode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	relation, err := c.LinkingService.RedeemCode(ctx.Request.Context(), claims.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidLinkingCode), errors.Is(err, util.ErrLinkingCodeExpired):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrRelationExists):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, relation)
}

// @Summary List the calling parent's relations
// @Tags linking
// @Produce json
// @Security BearerAuth
// @Router /api/linking/relations [get]
func (c *LinkingController) ListRelations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	relations, err := c.LinkingService.RelationsForParent(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, relations)
}

// @Summary Remove a parent-student relation
// @Tags linking
// @Param relationId path int true "relation ID"
// @Produce json
// @Security BearerAuth
// @Router /api/linking/relations/{relationId} [delete]
func (c *LinkingController) RemoveRelation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	relationID, err := strconv.ParseUint(ctx.Param("relationId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid relationId")
		return
	}

	if err := c.LinkingService.RemoveRelation(ctx.Request.Context(), uint(relationID), claims.UserID); err != nil {
		if errors.Is(err, util.ErrRelationNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "relation removed"})
}
