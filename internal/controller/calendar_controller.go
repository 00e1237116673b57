package controller

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CalendarController struct {
	CalendarService *service.CalendarService
}

func NewCalendarController(calendarService *service.CalendarService) *CalendarController {
	return &CalendarController{CalendarService: calendarService}
}

// @Summary Create a calendar event
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/calendar/events [post]
func (c *CalendarController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		EventType   string     `json:"eventType"`
		StartDate   time.Time  `json:"startDate" binding:"required"`
		EndDate     *time.Time `json:"endDate"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.CalendarService.CreateEvent(claims.UserID, req.Title, req.Description, model.EventType(req.EventType), req.StartDate, req.EndDate)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, event)
}

// @Summary List the caller's calendar events
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Router /api/calendar/events [get]
func (c *CalendarController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	events, err := c.CalendarService.EventsFor(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, events)
}

// @Summary Update a calendar event
// @Tags calendar
// @Param eventId path string true "event ID"
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/calendar/events/{eventId} [put]
func (c *CalendarController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		EventType   *string    `json:"eventType"`
		StartDate   *time.Time `json:"startDate"`
		EndDate     *time.Time `json:"endDate"`
		IsCompleted *bool      `json:"isCompleted"`
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
	if req.EventType != nil {
		updates["event_type"] = *req.EventType
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}
	if len(updates) == 0 {
		util.BadRequest(ctx, "no fields to update")
		return
	}

	event, err := c.CalendarService.UpdateEvent(ctx.Request.Context(), claims.UserID, ctx.Param("eventId"), updates)
	if err != nil {
		c.respondEventError(ctx, err)
		return
	}

	util.Success(ctx, event)
}

// @Summary Mark a calendar event completed
// @Tags calendar
// @Param eventId path string true "event ID"
// @Produce json
// @Security BearerAuth
// @Router /api/calendar/events/{eventId}/complete [patch]
func (c *CalendarController) MarkCompleted(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	event, err := c.CalendarService.MarkCompleted(ctx.Request.Context(), claims.UserID, ctx.Param("eventId"))
	if err != nil {
		c.respondEventError(ctx, err)
		return
	}

	util.Success(ctx, event)
}

// @Summary Delete a calendar event
// @Tags calendar
// @Param eventId path string true "event ID"
// @Produce json
// @Security BearerAuth
// @Router /api/calendar/events/{eventId} [delete]
func (c *CalendarController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CalendarService.DeleteEvent(ctx.Request.Context(), claims.UserID, ctx.Param("eventId")); err != nil {
		c.respondEventError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "event deleted"})
}

func (c *CalendarController) respondEventError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
