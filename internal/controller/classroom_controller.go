package controller

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ClassroomController serves a student's own mirror data; the guardian-facing
// aggregate lives in RollupController.
type ClassroomController struct {
	ClassroomService *service.ClassroomService
}

func NewClassroomController(classroomService *service.ClassroomService) *ClassroomController {
	return &ClassroomController{ClassroomService: classroomService}
}

// @Summary Whether the caller linked a classroom account
// @Tags classroom
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/status [get]
func (c *ClassroomController) GetStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	linked, err := c.ClassroomService.HasLinkedAccount(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"linked": linked})
}

// @Summary The caller's mirrored courses
// @Tags classroom
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/courses [get]
func (c *ClassroomController) GetCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.ClassroomService.CoursesFor(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary The caller's upcoming coursework
// @Tags classroom
// @Param daysAhead query int false "window size in days, default 7"
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/upcoming [get]
func (c *ClassroomController) GetUpcomingWork(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	daysAhead := 0
	if raw := ctx.Query("daysAhead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			util.BadRequest(ctx, "invalid daysAhead")
			return
		}
		daysAhead = parsed
	}

	work, err := c.ClassroomService.UpcomingCourseworkFor(ctx.Request.Context(), claims.UserID, daysAhead)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, work)
}

// @Summary The caller's submissions
// @Tags classroom
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/submissions [get]
func (c *ClassroomController) GetSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	submissions, err := c.ClassroomService.SubmissionsFor(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}

// @Summary Drop the caller's classroom credential
// @Tags classroom
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/link [delete]
func (c *ClassroomController) Unlink(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ClassroomService.Unlink(ctx.Request.Context(), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "classroom account unlinked"})
}

// @Summary The caller's sync history
// @Tags classroom
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/sync-logs [get]
func (c *ClassroomController) GetSyncLogs(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	logs, err := c.ClassroomService.SyncLogsFor(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, logs)
}

// @Summary Open a sync log entry (sync worker)
// @Tags classroom
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/sync-logs [post]
func (c *ClassroomController) CreateSyncLog(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		SyncType string `json:"syncType" binding:"required,oneof=courses coursework submissions full"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	log, err := c.ClassroomService.RecordSyncStart(claims.UserID, req.SyncType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, log)
}

// @Summary Close a sync log entry (sync worker)
// @Tags classroom
// @Param logId path string true "sync log ID"
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/classroom/sync-logs/{logId} [patch]
func (c *ClassroomController) UpdateSyncLog(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Status           model.SyncStatus `json:"status" binding:"required,oneof=completed failed"`
		RecordsProcessed int              `json:"recordsProcessed"`
		ErrorMessage     string           `json:"errorMessage"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	log, err := c.ClassroomService.CompleteSyncLog(ctx.Request.Context(), ctx.Param("logId"), req.Status, req.RecordsProcessed, req.ErrorMessage)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, log)
}
