package controller

import (
	"classlink_backend/internal/service"
	"classlink_backend/internal/util"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type UserController struct {
	UserService *service.UserService
	Storage     *service.StorageService
}

func NewUserController(userService *service.UserService, storage *service.StorageService) *UserController {
	return &UserController{
		UserService: userService,
		Storage:     storage,
	}
}

// @Summary Update the caller's profile
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		DisplayName string `json:"displayName"`
		Language    string `json:"language" binding:"omitempty,oneof=es en"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdateProfile(claims.UserID, req.DisplayName, req.Language); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.UserService.Profile(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// @Summary Upload the caller's avatar
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Router /api/user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	if file.Size > maxAvatarSize {
		util.BadRequest(ctx, "avatar too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		util.BadRequest(ctx, "unsupported image format")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d-%s%s", claims.UserID, uuid.New().String(), ext)
	contentType := file.Header.Get("Content-Type")

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.SetAvatar(claims.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}
