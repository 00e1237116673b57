package controller

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Title       string               `json:"title" binding:"required"`
		Description string               `json:"description"`
		Content     []model.QuizQuestion `json:"content" binding:"required"`
		IsShared    bool                 `json:"isShared"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(claims.UserID, req.Title, req.Description, req.Content, req.IsShared)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// @Summary List quizzes visible to the caller
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizzes, err := c.QuizService.QuizzesFor(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary Fetch a single quiz
// @Tags quizzes
// @Param quizId path string true "quiz ID"
// @Produce json
// @Security BearerAuth
// @Router /api/quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.QuizService.Quiz(ctx.Request.Context(), claims.UserID, ctx.Param("quizId"))
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Update a quiz
// @Tags quizzes
// @Param quizId path string true "quiz ID"
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/quizzes/{quizId} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Content     []model.QuizQuestion `json:"content"`
		IsShared    *bool                `json:"isShared"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Content != nil {
		content, err := json.Marshal(req.Content)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		updates["content"] = content
	}
	if req.IsShared != nil {
		updates["is_shared"] = *req.IsShared
	}
	if len(updates) == 0 {
		util.BadRequest(ctx, "no fields to update")
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(ctx.Request.Context(), claims.UserID, ctx.Param("quizId"), updates)
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Delete a quiz
// @Tags quizzes
// @Param quizId path string true "quiz ID"
// @Produce json
// @Security BearerAuth
// @Router /api/quizzes/{quizId} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuizService.DeleteQuiz(ctx.Request.Context(), claims.UserID, ctx.Param("quizId")); err != nil {
		c.respondQuizError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "quiz deleted"})
}

// @Summary Submit a graded attempt for a quiz
// @Tags quizzes
// @Param quizId path string true "quiz ID"
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/quizzes/{quizId}/results [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Answers map[string]int `json:"answers" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAttempt(ctx.Request.Context(), claims.UserID, ctx.Param("quizId"), req.Answers)
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary List the caller's attempts, optionally for one quiz
// @Tags quizzes
// @Param quizId query string false "quiz ID"
// @Produce json
// @Security BearerAuth
// @Router /api/quiz-results [get]
func (c *QuizController) ListResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.QuizService.ResultsFor(ctx.Request.Context(), claims.UserID, ctx.Query("quizId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}

func (c *QuizController) respondQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
