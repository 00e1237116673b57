package controller

import (
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HomeworkController struct {
	HomeworkService *service.HomeworkService
}

func NewHomeworkController(homeworkService *service.HomeworkService) *HomeworkController {
	return &HomeworkController{HomeworkService: homeworkService}
}

// @Summary Submit homework for review
// @Tags homework
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/homework-reviews [post]
func (c *HomeworkController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Title            string   `json:"title" binding:"required"`
		Content          string   `json:"content" binding:"required"`
		ContextDocuments []string `json:"contextDocuments"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.HomeworkService.CreateReview(claims.UserID, req.Title, req.Content, req.ContextDocuments)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, review)
}

// @Summary List the caller's homework reviews
// @Tags homework
// @Produce json
// @Security BearerAuth
// @Router /api/homework-reviews [get]
func (c *HomeworkController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	reviews, err := c.HomeworkService.ReviewsFor(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, reviews)
}

// @Summary Fetch a single homework review
// @Tags homework
// @Param reviewId path string true "review ID"
// @Produce json
// @Security BearerAuth
// @Router /api/homework-reviews/{reviewId} [get]
func (c *HomeworkController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	review, err := c.HomeworkService.Review(ctx.Request.Context(), claims.UserID, ctx.Param("reviewId"))
	if err != nil {
		c.respondReviewError(ctx, err)
		return
	}

	util.Success(ctx, review)
}

// @Summary Update a homework review
// @Tags homework
// @Param reviewId path string true "review ID"
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/homework-reviews/{reviewId} [put]
func (c *HomeworkController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Title            *string          `json:"title"`
		Content          *string          `json:"content"`
		ContextDocuments []string         `json:"contextDocuments"`
		AIFeedback       *json.RawMessage `json:"aiFeedback"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.ContextDocuments != nil {
		raw, err := json.Marshal(req.ContextDocuments)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		updates["context_documents"] = raw
	}
	if req.AIFeedback != nil {
		updates["ai_feedback"] = []byte(*req.AIFeedback)
	}
	if len(updates) == 0 {
		util.BadRequest(ctx, "no fields to update")
		return
	}

	review, err := c.HomeworkService.UpdateReview(ctx.Request.Context(), claims.UserID, ctx.Param("reviewId"), updates)
	if err != nil {
		c.respondReviewError(ctx, err)
		return
	}

	util.Success(ctx, review)
}

// @Summary Delete a homework review
// @Tags homework
// @Param reviewId path string true "review ID"
// @Produce json
// @Security BearerAuth
// @Router /api/homework-reviews/{reviewId} [delete]
func (c *HomeworkController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.HomeworkService.DeleteReview(ctx.Request.Context(), claims.UserID, ctx.Param("reviewId")); err != nil {
		c.respondReviewError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "review deleted"})
}

func (c *HomeworkController) respondReviewError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
