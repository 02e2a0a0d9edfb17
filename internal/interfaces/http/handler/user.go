// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"time"

	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/domain/repository"
	redisinfra "streamguide-api/internal/infrastructure/persistence/redis"
	"streamguide-api/internal/interfaces/http/dto"
	"streamguide-api/internal/interfaces/http/middleware"
	"streamguide-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	userRepo repository.UserRepository
	cache    *redisinfra.Cache
}

// NewUserHandler 创建用户处理器
// cache 允许为 nil，此时跳过用户缓存失效
func NewUserHandler(userRepo repository.UserRepository, cache *redisinfra.Cache) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		cache:    cache,
	}
}

// invalidateUserCache 用户资料或偏好变更后使相关缓存失效，失败只记日志
func (h *UserHandler) invalidateUserCache(ctx context.Context, userID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateUser(ctx, userID); err != nil {
		logger.Warn(ctx, "failed to invalidate user cache", "error", err, "user_id", userID)
	}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 获取登录用户的详细资料
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "failed to get user info")
		return
	}

	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}

	resp := dto.ToUserResponse(user)
	dto.Success(c, resp)
}

// UpdateMe 更新当前用户信息
// @Summary 更新当前用户信息
// @Description 修改当前登录用户的昵称、头像或检索偏好
// @Tags Users
// @Accept json
// @Produce json
// @Param body body dto.UpdateUserRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "failed to get user info")
		return
	}

	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}

	req.ApplyToUser(user)

	if err := h.userRepo.Update(ctx, user); err != nil {
		logger.Error(ctx, "failed to update user", err)
		dto.InternalError(c, "failed to update user info")
		return
	}

	h.invalidateUserCache(ctx, userID)

	resp := dto.ToUserResponse(user)
	dto.Success(c, resp)
}

// GetPreferences 获取当前用户检索偏好
// @Summary 获取检索偏好
// @Tags Users
// @Produce json
// @Success 200 {object} dto.Response[entity.UserPreferences]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/users/me/preferences [get]
func (h *UserHandler) GetPreferences(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "failed to get preferences")
		return
	}
	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}

	prefs := user.Preferences
	if prefs == nil {
		prefs = &entity.UserPreferences{}
	}
	dto.Success(c, prefs)
}

// UpdatePreferences 全量替换当前用户检索偏好
// @Summary 更新检索偏好
// @Tags Users
// @Accept json
// @Produce json
// @Param body body entity.UserPreferences true "偏好"
// @Success 200 {object} dto.Response[entity.UserPreferences]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/users/me/preferences [put]
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var prefs entity.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "failed to update preferences")
		return
	}
	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}

	user.Preferences = &prefs
	user.UpdatedAt = time.Now()
	if err := h.userRepo.Update(ctx, user); err != nil {
		logger.Error(ctx, "failed to update preferences", err)
		dto.InternalError(c, "failed to update preferences")
		return
	}

	h.invalidateUserCache(ctx, userID)

	dto.Success(c, user.Preferences)
}

// ListUsers 获取用户列表（管理员）
// @Summary 获取用户列表
// @Description 获取所有用户（分页），仅管理员可用
// @Tags Users
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.UserListResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	pageReq := dto.BindPage(c)

	result, err := h.userRepo.List(ctx, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list users", err)
		dto.InternalError(c, "failed to list users")
		return
	}

	resp := dto.ToUserListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// UpdateUserRole 更新用户角色（管理员）
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	ctx := c.Request.Context()
	targetUserID := c.Param("id")

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "failed to update user role")
		return
	}
	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}

	user.Role = req.Role
	if err := h.userRepo.Update(ctx, user); err != nil {
		logger.Error(ctx, "failed to update user role", err)
		dto.InternalError(c, "failed to update user role")
		return
	}

	h.invalidateUserCache(ctx, targetUserID)

	dto.Success(c, gin.H{"message": "user role updated"})
}

// DeleteUser 删除用户（管理员）
func (h *UserHandler) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	targetUserID := c.Param("id")

	if err := h.userRepo.Delete(ctx, targetUserID); err != nil {
		logger.Error(ctx, "failed to delete user", err)
		dto.InternalError(c, "failed to delete user")
		return
	}

	h.invalidateUserCache(ctx, targetUserID)

	dto.Success(c, gin.H{"message": "user deleted"})
}
