package controller

import (
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		ReceiverID uint   `json:"receiverId" binding:"required"`
		Subject    string `json:"subject"`
		Content    string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	message, err := c.MessageService.Send(claims.UserID, req.ReceiverID, req.Subject, req.Content)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, message)
}

// @Summary List messages sent to or by the caller
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Router /api/messages [get]
func (c *MessageController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	messages, err := c.MessageService.MessagesFor(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}

// @Summary Mark a received message as read
// @Tags messages
// @Param messageId path string true "message ID"
// @Produce json
// @Security BearerAuth
// @Router /api/messages/{messageId}/read [patch]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	message, err := c.MessageService.MarkRead(ctx.Request.Context(), claims.UserID, ctx.Param("messageId"))
	if err != nil {
		c.respondMessageError(ctx, err)
		return
	}

	util.Success(ctx, message)
}

// @Summary Delete a message
// @Tags messages
// @Param messageId path string true "message ID"
// @Produce json
// @Security BearerAuth
// @Router /api/messages/{messageId} [delete]
func (c *MessageController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.MessageService.Delete(ctx.Request.Context(), claims.UserID, ctx.Param("messageId")); err != nil {
		c.respondMessageError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "message deleted"})
}

func (c *MessageController) respondMessageError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
